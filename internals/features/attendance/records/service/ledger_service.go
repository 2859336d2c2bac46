// internals/features/attendance/records/service/ledger_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"absensiku_backend/internals/features/attendance/records/model"
)

// Duplikat (session, roll_no). Bukan kegagalan bagi end user:
// controller membalasnya sebagai "sudah tercatat hadir".
var ErrAlreadyMarked = errors.New("sudah tercatat di sesi ini")

// LedgerService memiliki seluruh penulisan AttendanceRecord.
// Unik (session_id, roll_no) ditegakkan oleh index komposit di storage;
// dua check-in paralel untuk pasangan yang sama dijamin tepat satu
// yang menang, satunya melihat ErrAlreadyMarked.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

/* ===================== APPEND ===================== */

func (l *LedgerService) Append(sessionId uuid.UUID, rollNo, subject, status string, lat, lng float64) (*model.AttendanceRecordModel, error) {
	now := time.Now()
	rec := &model.AttendanceRecordModel{
		AttendanceRecordId:        uuid.New(),
		AttendanceRecordSessionId: sessionId,
		AttendanceRecordRollNo:    rollNo,
		AttendanceRecordSubject:   subject,
		AttendanceRecordDate:      now.Format("2006-01-02"),
		AttendanceRecordTime:      now.Format("15:04:05"),
		AttendanceRecordLat:       lat,
		AttendanceRecordLng:       lng,
		AttendanceRecordStatus:    status,
		AttendanceRecordCreatedAt: now,
	}

	if err := l.DB.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMarked
		}
		return nil, err
	}
	return rec, nil
}

// BulkAppendAbsent: insert batch baris Absent, best-effort. Konflik
// per baris (siswa keburu check-in di sela diff dan insert) di-skip
// lewat ON CONFLICT DO NOTHING, tidak menggagalkan satu batch.
// Mengembalikan jumlah baris yang benar-benar masuk.
func (l *LedgerService) BulkAppendAbsent(sessionId uuid.UUID, subject string, rollNos []string) (int64, error) {
	if len(rollNos) == 0 {
		return 0, nil
	}

	now := time.Now()
	rows := make([]model.AttendanceRecordModel, 0, len(rollNos))
	for _, rollNo := range rollNos {
		rows = append(rows, model.AttendanceRecordModel{
			AttendanceRecordId:        uuid.New(),
			AttendanceRecordSessionId: sessionId,
			AttendanceRecordRollNo:    rollNo,
			AttendanceRecordSubject:   subject,
			AttendanceRecordDate:      now.Format("2006-01-02"),
			AttendanceRecordTime:      now.Format("15:04:05"),
			AttendanceRecordStatus:    model.StatusAbsent,
			AttendanceRecordCreatedAt: now,
		})
	}

	res := l.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attendance_records_session_id"},
			{Name: "attendance_records_roll_no"},
		},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

/* ===================== READ ===================== */

func (l *LedgerService) ListBySession(sessionId uuid.UUID) ([]model.AttendanceRecordModel, error) {
	var out []model.AttendanceRecordModel
	err := l.DB.
		Where("attendance_records_session_id = ?", sessionId).
		Order("attendance_records_created_at DESC").
		Find(&out).Error
	return out, err
}

func (l *LedgerService) ListByStudent(rollNo, subjectFilter string) ([]model.AttendanceRecordModel, error) {
	q := l.DB.Where("attendance_records_roll_no = ?", rollNo)
	if subjectFilter != "" {
		q = q.Where("attendance_records_subject = ?", subjectFilter)
	}
	var out []model.AttendanceRecordModel
	err := q.Order("attendance_records_created_at DESC").Find(&out).Error
	return out, err
}

func (l *LedgerService) CountPresent(sessionId uuid.UUID) (int64, error) {
	var n int64
	err := l.DB.Model(&model.AttendanceRecordModel{}).
		Where("attendance_records_session_id = ? AND attendance_records_status = ?", sessionId, model.StatusPresent).
		Count(&n).Error
	return n, err
}

func (l *LedgerService) PresentRollNos(sessionId uuid.UUID) ([]string, error) {
	var rollNos []string
	err := l.DB.Model(&model.AttendanceRecordModel{}).
		Where("attendance_records_session_id = ? AND attendance_records_status = ?", sessionId, model.StatusPresent).
		Pluck("attendance_records_roll_no", &rollNos).Error
	return rollNos, err
}

func (l *LedgerService) Counts(sessionId uuid.UUID) (present int64, absent int64, err error) {
	if present, err = l.CountPresent(sessionId); err != nil {
		return
	}
	err = l.DB.Model(&model.AttendanceRecordModel{}).
		Where("attendance_records_session_id = ? AND attendance_records_status = ?", sessionId, model.StatusAbsent).
		Count(&absent).Error
	return
}
