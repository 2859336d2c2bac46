// internals/features/attendance/sessions/controller/session_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	recordModel "absensiku_backend/internals/features/attendance/records/model"
	recordService "absensiku_backend/internals/features/attendance/records/service"
	"absensiku_backend/internals/features/attendance/sessions/dto"
	"absensiku_backend/internals/features/attendance/sessions/service"
	"absensiku_backend/internals/features/attendance/stats"
	studentService "absensiku_backend/internals/features/attendance/students/service"
	helper "absensiku_backend/internals/helpers"
)

type SessionController struct {
	DB       *gorm.DB
	Sessions *service.SessionService
	Closer   *service.SessionCloser
	Ledger   *recordService.LedgerService
	Roster   *studentService.RosterService
}

var validate = validator.New()

func NewSessionController(db *gorm.DB, sessions *service.SessionService, closer *service.SessionCloser, ledger *recordService.LedgerService) *SessionController {
	return &SessionController{
		DB:       db,
		Sessions: sessions,
		Closer:   closer,
		Ledger:   ledger,
		Roster:   studentService.NewRosterService(db),
	}
}

/* ===================== CREATE ===================== */

// ✅ POST /api/sessions — buka sesi kehadiran baru
func (ctrl *SessionController) CreateSession(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := ctrl.Sessions.Create(teacherId, req)
	if err != nil {
		if errors.Is(err, service.ErrCodeCollision) {
			return helper.Error(c, fiber.StatusConflict, "Gagal mendapatkan kode kelas unik, silakan coba lagi")
		}
		log.Println("[ERROR] Gagal membuat sesi:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat sesi")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesi berhasil dibuat ✅", dto.FromModel(sess))
}

/* ===================== READ ===================== */

// ✅ GET /api/sessions — sesi aktif milik guru (QR di-refresh tiap fetch)
func (ctrl *SessionController) GetActiveSessions(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}

	sessions, err := ctrl.Sessions.ListActive(teacherId)
	if err != nil {
		log.Println("[ERROR] Gagal mengambil sesi aktif:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil sesi aktif")
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.FromModel(&sessions[i]))
	}
	return helper.Success(c, "Sesi aktif berhasil diambil", out)
}

// ✅ GET /api/sessions/history — riwayat sesi + hitungan kehadiran
func (ctrl *SessionController) GetHistory(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}

	sessions, err := ctrl.Sessions.ListPast(teacherId, 50)
	if err != nil {
		log.Println("[ERROR] Gagal mengambil riwayat sesi:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat sesi")
	}

	out := make([]fiber.Map, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		records, err := ctrl.Ledger.ListBySession(s.AttendanceSessionId)
		if err != nil {
			records = nil
		}
		present, absent, err := ctrl.Ledger.Counts(s.AttendanceSessionId)
		if err != nil {
			present, absent = 0, 0
		}
		out = append(out, fiber.Map{
			"sessionId":     s.AttendanceSessionId.String(),
			"subject":       s.AttendanceSessionSubject,
			"classCode":     s.AttendanceSessionClassCode,
			"totalStudents": s.AttendanceSessionTotalStudents,
			"createdAt":     s.AttendanceSessionCreatedAt,
			"expiresAt":     s.AttendanceSessionExpiresAt,
			"active":        s.AttendanceSessionActive,
			"records":       ctrl.Roster.EnrichRecords(records),
			"presentCount":  present,
			"absentCount":   absent,
		})
	}
	return helper.Success(c, "Riwayat sesi berhasil diambil", out)
}

/* ===================== LIFECYCLE ===================== */

// ✅ PUT /api/sessions/:session_id/end — tutup sesi + sweep absen
func (ctrl *SessionController) EndSession(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}
	sessionId, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	result, err := ctrl.Closer.EndSession(sessionId, teacherId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return helper.Error(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
		case errors.Is(err, service.ErrSessionUnauthorized):
			return helper.Error(c, fiber.StatusForbidden, "Sesi ini bukan milik Anda")
		default:
			log.Println("[ERROR] Gagal menutup sesi:", err)
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal menutup sesi")
		}
	}

	return helper.Success(c, "Sesi berhasil ditutup ✅", fiber.Map{
		"sessionId":    result.Session.AttendanceSessionId.String(),
		"subject":      result.Session.AttendanceSessionSubject,
		"presentCount": result.PresentCount,
		"absentCount":  result.AbsentCount,
	})
}

/* ===================== ANALYTICS ===================== */

// ✅ GET /api/sessions/analytics — rekap per mapel + tren harian guru
func (ctrl *SessionController) GetAnalytics(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}

	var sessionIds []uuid.UUID
	err = ctrl.DB.Table("attendance_sessions").
		Where("attendance_sessions_teacher_id = ?", teacherId).
		Pluck("attendance_sessions_id", &sessionIds).Error
	if err != nil {
		log.Println("[ERROR] Gagal mengambil sesi untuk analytics:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data analytics")
	}

	records, err := ctrl.recordsForSessions(sessionIds)
	if err != nil {
		log.Println("[ERROR] Gagal mengambil record untuk analytics:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data analytics")
	}

	overall := stats.ComputeOverall(records)
	return helper.Success(c, "Analytics berhasil diambil", fiber.Map{
		"totalSessions": len(sessionIds),
		"overall":       overall,
		"bySubject":     stats.BySubject(records),
		"dailyTrend":    stats.DailyTrend(records, 30),
	})
}

func (ctrl *SessionController) recordsForSessions(sessionIds []uuid.UUID) ([]recordModel.AttendanceRecordModel, error) {
	if len(sessionIds) == 0 {
		return nil, nil
	}
	var records []recordModel.AttendanceRecordModel
	err := ctrl.DB.
		Where("attendance_records_session_id IN ?", sessionIds).
		Find(&records).Error
	return records, err
}
