// internals/features/attendance/records/service/checkin_service.go
package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"absensiku_backend/internals/configs"
	"absensiku_backend/internals/features/attendance/geofence"
	"absensiku_backend/internals/features/attendance/realtime"
	recordModel "absensiku_backend/internals/features/attendance/records/model"
	sessionModel "absensiku_backend/internals/features/attendance/sessions/model"
	sessionService "absensiku_backend/internals/features/attendance/sessions/service"
	studentModel "absensiku_backend/internals/features/attendance/students/model"
)

// GeofenceError membawa jarak terhitung supaya client bisa menjelaskan
// kenapa check-in ditolak.
type GeofenceError struct {
	Distance float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("Di luar radius kampus. Jarak Anda %dm", int(math.Round(e.Distance)))
}

// CheckInResult: hasil satu percobaan check-in. AlreadyMarked bernilai
// true adalah outcome sukses (idempoten), bukan error — siswa yang
// retry setelah jaringan putus tidak boleh dibilang gagal.
type CheckInResult struct {
	Record        *recordModel.AttendanceRecordModel
	AlreadyMarked bool
	StudentName   string
	PresentCount  int64
}

// CheckInService mengorkestrasi satu percobaan check-in:
// Received → SessionResolved → GeoChecked → Recorded | Rejected | AlreadyPresent.
type CheckInService struct {
	DB          *gorm.DB
	Sessions    *sessionService.SessionService
	Ledger      *LedgerService
	Broadcaster realtime.Broadcaster
	Campus      configs.CampusGeofence
}

func NewCheckInService(db *gorm.DB, sessions *sessionService.SessionService, ledger *LedgerService, bc realtime.Broadcaster, campus configs.CampusGeofence) *CheckInService {
	return &CheckInService{DB: db, Sessions: sessions, Ledger: ledger, Broadcaster: bc, Campus: campus}
}

/* ===================== STUDENT CHECK-IN ===================== */

// MarkBySessionId: jalur scan QR.
func (s *CheckInService) MarkBySessionId(sessionId uuid.UUID, rollNo string, lat, lng float64) (*CheckInResult, error) {
	sess, err := s.Sessions.FindActiveById(sessionId)
	if err != nil {
		return nil, err
	}
	return s.mark(sess, rollNo, lat, lng, false, "")
}

// MarkByClassCode: fallback kode kelas kalau kamera gagal.
func (s *CheckInService) MarkByClassCode(classCode, rollNo string, lat, lng float64) (*CheckInResult, error) {
	sess, err := s.Sessions.FindActiveByCode(classCode)
	if err != nil {
		return nil, err
	}
	return s.mark(sess, rollNo, lat, lng, false, "")
}

/* ===================== MANUAL OVERRIDE ===================== */

// ManualMark: guru menambahkan siswa tanpa lokasi. Lewati geofence,
// koordinat di-nol-kan, selebihnya state machine yang sama.
func (s *CheckInService) ManualMark(sessionId, teacherId uuid.UUID, rollNo, studentName string) (*CheckInResult, error) {
	sess, err := s.Sessions.FindActiveById(sessionId)
	if err != nil {
		return nil, err
	}
	if sess.AttendanceSessionTeacherId != teacherId {
		return nil, sessionService.ErrSessionUnauthorized
	}
	return s.mark(sess, rollNo, 0, 0, true, studentName)
}

/* ===================== CORE STATE MACHINE ===================== */

func (s *CheckInService) mark(sess *sessionModel.AttendanceSessionModel, rollNo string, lat, lng float64, skipGeo bool, displayName string) (*CheckInResult, error) {
	// Lazy expiry: wajib sebelum check-in diterima.
	sess, err := s.Sessions.MarkExpiredIfPast(sess)
	if err != nil {
		return nil, err
	}
	if !sess.AttendanceSessionActive {
		return nil, sessionService.ErrSessionExpired
	}

	if !skipGeo {
		inside, distance := geofence.IsInside(lat, lng, s.Campus.Lat, s.Campus.Lng, s.Campus.RadiusM)
		if !inside {
			return nil, &GeofenceError{Distance: distance}
		}
	}

	rec, err := s.Ledger.Append(sess.AttendanceSessionId, rollNo, sess.AttendanceSessionSubject, recordModel.StatusPresent, lat, lng)
	if errors.Is(err, ErrAlreadyMarked) {
		// Outcome idempoten berbentuk sukses.
		return &CheckInResult{AlreadyMarked: true}, nil
	}
	if err != nil {
		return nil, err
	}

	name := displayName
	if name == "" {
		name = s.resolveStudentName(rollNo)
	}

	presentCount, err := s.Ledger.CountPresent(sess.AttendanceSessionId)
	if err != nil {
		presentCount = 0 // hitungan hanya untuk display, jangan gagalkan check-in
	}

	// Fire-and-forget: broadcaster tidak pernah menjadi bagian
	// kebenaran ledger.
	s.Broadcaster.PublishPresenceUpdated(sess.AttendanceSessionId.String(), realtime.PresenceUpdatedPayload{
		RollNo:        rollNo,
		Name:          name,
		SessionId:     sess.AttendanceSessionId.String(),
		PresentCount:  presentCount,
		TotalStudents: sess.AttendanceSessionTotalStudents,
		Time:          time.Now().Format("15:04:05"),
	})

	return &CheckInResult{
		Record:       rec,
		StudentName:  name,
		PresentCount: presentCount,
	}, nil
}

// resolveStudentName: lookup roster untuk display; fallback ke rollNo.
func (s *CheckInService) resolveStudentName(rollNo string) string {
	var st studentModel.StudentModel
	err := s.DB.Where("students_roll_no = ?", rollNo).First(&st).Error
	if err != nil || st.StudentName == "" {
		return rollNo
	}
	return st.StudentName
}
