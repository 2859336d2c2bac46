// internals/features/attendance/sessions/model/session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type AttendanceSessionModel struct {
	// sessionId: token opaque yang dibagikan lewat QR.
	// Diisi uuid.New() oleh service (bukan default DB) supaya skema
	// jalan di postgres maupun sqlite test.
	AttendanceSessionId uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_sessions_id" json:"attendance_sessions_id"`

	AttendanceSessionTeacherId uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_sessions_teacher_id" json:"attendance_sessions_teacher_id"`
	AttendanceSessionSubject   string    `gorm:"not null;column:attendance_sessions_subject" json:"attendance_sessions_subject"`

	// Kode kelas 6 digit: alternatif manual kalau kamera gagal.
	// Unik HANYA di antara sesi aktif (partial unique index), kode bisa
	// dipakai ulang setelah sesinya berakhir.
	AttendanceSessionClassCode string `gorm:"not null;uniqueIndex:uq_attendance_sessions_active_code,where:attendance_sessions_active;column:attendance_sessions_class_code" json:"attendance_sessions_class_code"`

	// Payload QR: JSON compact {sessionId, teacherId, subject, timestamp},
	// sengaja tanpa encoding gambar/binary (lihat dto.BuildQrPayload).
	AttendanceSessionQrData datatypes.JSON `gorm:"column:attendance_sessions_qr_data" json:"attendance_sessions_qr_data"`

	// Ekspektasi jumlah peserta, hanya untuk progress display.
	AttendanceSessionTotalStudents int `gorm:"not null;default:60;column:attendance_sessions_total_students" json:"attendance_sessions_total_students"`

	// Roster opsional yang dilekatkan ke sesi. Kalau kosong, sweep absen
	// memakai seluruh tabel students.
	AttendanceSessionRoster pq.StringArray `gorm:"type:text[];column:attendance_sessions_roster" json:"attendance_sessions_roster,omitempty"`

	AttendanceSessionCreatedAt time.Time `gorm:"column:attendance_sessions_created_at;autoCreateTime" json:"attendance_sessions_created_at"`
	AttendanceSessionExpiresAt time.Time `gorm:"not null;column:attendance_sessions_expires_at" json:"attendance_sessions_expires_at"`

	// Terminal: sekali false tidak pernah kembali true. Konsumen tetap
	// wajib cek expires_at sendiri (lazy expiry).
	AttendanceSessionActive bool `gorm:"not null;default:true;column:attendance_sessions_active" json:"attendance_sessions_active"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }

// IsExpired: sesi efektif kedaluwarsa walau flag active belum sempat diflip.
func (m *AttendanceSessionModel) IsExpired(now time.Time) bool {
	return now.After(m.AttendanceSessionExpiresAt)
}
