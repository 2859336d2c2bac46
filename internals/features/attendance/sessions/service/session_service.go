// internals/features/attendance/sessions/service/session_service.go
package service

import (
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"absensiku_backend/internals/features/attendance/sessions/dto"
	"absensiku_backend/internals/features/attendance/sessions/model"
)

var (
	ErrSessionNotFound     = errors.New("sesi tidak ditemukan atau sudah tidak aktif")
	ErrSessionExpired      = errors.New("sesi sudah kedaluwarsa")
	ErrSessionUnauthorized = errors.New("sesi ini bukan milik Anda")

	// Semua percobaan kode kelas tabrakan dengan sesi aktif lain.
	// Peluangnya 1:900000 per undian, tapi tetap harus ditangani.
	ErrCodeCollision = errors.New("gagal mendapatkan kode kelas unik, coba lagi")
)

const createRetries = 5

// RandomClassCode mengundi kode 6 digit yang gampang diketik manual.
func RandomClassCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}

// SessionService memiliki seluruh mutasi entity Session.
type SessionService struct {
	DB *gorm.DB

	// CodeFn bisa dioverride di test untuk memaksa tabrakan kode.
	CodeFn func() string
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db, CodeFn: RandomClassCode}
}

/* ===================== CREATE ===================== */

// Create membuat sesi baru: sessionId uuid segar + kode kelas 6 digit.
// Tabrakan kode dengan sesi aktif lain terdeteksi lewat partial unique
// index (bukan read-then-write) dan diulang sampai createRetries kali.
func (s *SessionService) Create(teacherId uuid.UUID, req dto.CreateSessionRequest) (*model.AttendanceSessionModel, error) {
	totalStudents := req.TotalStudents
	if totalStudents <= 0 {
		totalStudents = 60
	}

	now := time.Now()
	for attempt := 0; attempt < createRetries; attempt++ {
		sessionId := uuid.New()
		m := &model.AttendanceSessionModel{
			AttendanceSessionId:            sessionId,
			AttendanceSessionTeacherId:     teacherId,
			AttendanceSessionSubject:       req.Subject,
			AttendanceSessionClassCode:     s.CodeFn(),
			AttendanceSessionQrData:        dto.BuildQrPayload(sessionId, teacherId, req.Subject),
			AttendanceSessionTotalStudents: totalStudents,
			AttendanceSessionRoster:        req.Roster,
			AttendanceSessionCreatedAt:     now,
			AttendanceSessionExpiresAt:     now.Add(time.Duration(req.DurationMinutes) * time.Minute),
			AttendanceSessionActive:        true,
		}

		err := s.DB.Create(m).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue // kode tabrakan, undi ulang
		}
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, ErrCodeCollision
}

/* ===================== LOOKUP ===================== */

func (s *SessionService) FindActiveById(sessionId uuid.UUID) (*model.AttendanceSessionModel, error) {
	var m model.AttendanceSessionModel
	err := s.DB.
		Where("attendance_sessions_id = ? AND attendance_sessions_active = ?", sessionId, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SessionService) FindActiveByCode(classCode string) (*model.AttendanceSessionModel, error) {
	var m model.AttendanceSessionModel
	err := s.DB.
		Where("attendance_sessions_class_code = ? AND attendance_sessions_active = ?", classCode, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActive: sesi aktif milik seorang guru yang belum lewat deadline.
func (s *SessionService) ListActive(teacherId uuid.UUID) ([]model.AttendanceSessionModel, error) {
	var out []model.AttendanceSessionModel
	err := s.DB.
		Where("attendance_sessions_teacher_id = ? AND attendance_sessions_active = ? AND attendance_sessions_expires_at > ?",
			teacherId, true, time.Now()).
		Order("attendance_sessions_created_at DESC").
		Find(&out).Error
	return out, err
}

// ListPast: sesi yang sudah berakhir atau kedaluwarsa (riwayat/export).
func (s *SessionService) ListPast(teacherId uuid.UUID, limit int) ([]model.AttendanceSessionModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []model.AttendanceSessionModel
	err := s.DB.
		Where("attendance_sessions_teacher_id = ? AND (attendance_sessions_active = ? OR attendance_sessions_expires_at <= ?)",
			teacherId, false, time.Now()).
		Order("attendance_sessions_created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FindOwned: ambil sesi apa pun statusnya, dengan cek kepemilikan.
func (s *SessionService) FindOwned(sessionId, teacherId uuid.UUID) (*model.AttendanceSessionModel, error) {
	var m model.AttendanceSessionModel
	err := s.DB.Where("attendance_sessions_id = ?", sessionId).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.AttendanceSessionTeacherId != teacherId {
		return nil, ErrSessionUnauthorized
	}
	return &m, nil
}

/* ===================== LIFECYCLE ===================== */

// MarkExpiredIfPast: lazy expiry. Kalau deadline sudah lewat dan flag
// masih aktif, flip active=false dan persist. Wajib jalan sebelum
// check-in mana pun diterima.
func (s *SessionService) MarkExpiredIfPast(m *model.AttendanceSessionModel) (*model.AttendanceSessionModel, error) {
	if m.AttendanceSessionActive && m.IsExpired(time.Now()) {
		if err := s.deactivate(m.AttendanceSessionId); err != nil {
			return m, err
		}
		m.AttendanceSessionActive = false
	}
	return m, nil
}

// Close: penutupan eksplisit oleh pemilik. Transisi terminal.
func (s *SessionService) Close(sessionId, teacherId uuid.UUID) (*model.AttendanceSessionModel, error) {
	m, err := s.FindOwned(sessionId, teacherId)
	if err != nil {
		return nil, err
	}
	if m.AttendanceSessionActive {
		if err := s.deactivate(m.AttendanceSessionId); err != nil {
			return nil, err
		}
		m.AttendanceSessionActive = false
	}
	return m, nil
}

func (s *SessionService) deactivate(sessionId uuid.UUID) error {
	return s.DB.Model(&model.AttendanceSessionModel{}).
		Where("attendance_sessions_id = ?", sessionId).
		Update("attendance_sessions_active", false).Error
}
