// internals/features/attendance/sessions/service/session_closer.go
package service

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"absensiku_backend/internals/features/attendance/realtime"
	"absensiku_backend/internals/features/attendance/sessions/model"
	studentModel "absensiku_backend/internals/features/attendance/students/model"
)

// AbsenteeLedger adalah irisan ledger yang dibutuhkan penutupan sesi.
// Semua baris Absent tetap lewat ledger supaya constraint unik
// ditegakkan di satu tempat.
type AbsenteeLedger interface {
	PresentRollNos(sessionId uuid.UUID) ([]string, error)
	BulkAppendAbsent(sessionId uuid.UUID, subject string, rollNos []string) (int64, error)
	Counts(sessionId uuid.UUID) (present int64, absent int64, err error)
}

type CloseResult struct {
	Session      *model.AttendanceSessionModel
	PresentCount int64
	AbsentCount  int64
}

// SessionCloser mengakhiri satu sesi: flip inactive, diff roster vs
// yang hadir, bulk-insert baris Absent, lalu broadcast penutup.
type SessionCloser struct {
	DB          *gorm.DB
	Sessions    *SessionService
	Ledger      AbsenteeLedger
	Broadcaster realtime.Broadcaster
}

func NewSessionCloser(db *gorm.DB, sessions *SessionService, ledger AbsenteeLedger, bc realtime.Broadcaster) *SessionCloser {
	return &SessionCloser{DB: db, Sessions: sessions, Ledger: ledger, Broadcaster: bc}
}

func (c *SessionCloser) EndSession(sessionId, teacherId uuid.UUID) (*CloseResult, error) {
	sess, err := c.Sessions.FindOwned(sessionId, teacherId)
	if err != nil {
		return nil, err
	}

	// Idempotent: sesi yang sudah tertutup cukup mengembalikan hitungan
	// yang ada, sweep tidak diulang.
	if !sess.AttendanceSessionActive {
		present, absent, err := c.Ledger.Counts(sessionId)
		if err != nil {
			return nil, err
		}
		return &CloseResult{Session: sess, PresentCount: present, AbsentCount: absent}, nil
	}

	if err := c.Sessions.deactivate(sessionId); err != nil {
		return nil, err
	}
	sess.AttendanceSessionActive = false

	// Snapshot yang hadir, lalu diff terhadap roster.
	presentRollNos, err := c.Ledger.PresentRollNos(sessionId)
	if err != nil {
		return nil, err
	}
	presentSet := make(map[string]struct{}, len(presentRollNos))
	for _, r := range presentRollNos {
		presentSet[r] = struct{}{}
	}

	roster, err := c.rosterFor(sess)
	if err != nil {
		return nil, err
	}

	absent := make([]string, 0, len(roster))
	for _, r := range roster {
		if _, hadir := presentSet[r]; !hadir {
			absent = append(absent, r)
		}
	}

	// Best-effort: check-in telat yang menyelip antara snapshot dan
	// insert di-drop per baris oleh constraint unik, siswanya tetap
	// Present. Itu disengaja.
	if len(absent) > 0 {
		if _, err := c.Ledger.BulkAppendAbsent(sessionId, sess.AttendanceSessionSubject, absent); err != nil {
			return nil, err
		}
	}

	present, absentCount, err := c.Ledger.Counts(sessionId)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Sesi %s ditutup: hadir=%d absen=%d", sessionId, present, absentCount)
	c.Broadcaster.PublishSessionClosed(sessionId.String(), realtime.SessionClosedPayload{
		SessionId:    sessionId.String(),
		PresentCount: present,
		AbsentCount:  absentCount,
	})

	return &CloseResult{Session: sess, PresentCount: present, AbsentCount: absentCount}, nil
}

// rosterFor: roster yang dilekatkan ke sesi kalau ada, selain itu
// seluruh tabel students.
func (c *SessionCloser) rosterFor(sess *model.AttendanceSessionModel) ([]string, error) {
	if len(sess.AttendanceSessionRoster) > 0 {
		return sess.AttendanceSessionRoster, nil
	}
	var rollNos []string
	err := c.DB.Model(&studentModel.StudentModel{}).
		Pluck("students_roll_no", &rollNos).Error
	return rollNos, err
}
