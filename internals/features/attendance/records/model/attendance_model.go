// internals/features/attendance/records/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// AttendanceRecordModel adalah fakta append-only: tidak ada jalur
// update/delete. Satu baris per (session, roll_no), dijaga oleh unique
// index komposit di bawah — bukan oleh cek read-then-write di aplikasi.
type AttendanceRecordModel struct {
	AttendanceRecordId uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_records_id" json:"attendance_records_id"`

	AttendanceRecordSessionId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_records_session_roll;column:attendance_records_session_id" json:"attendance_records_session_id"`
	AttendanceRecordRollNo    string    `gorm:"not null;uniqueIndex:uq_attendance_records_session_roll;index;column:attendance_records_roll_no" json:"attendance_records_roll_no"`

	AttendanceRecordSubject string `gorm:"not null;column:attendance_records_subject" json:"attendance_records_subject"`
	AttendanceRecordDate    string `gorm:"not null;column:attendance_records_date" json:"attendance_records_date"` // YYYY-MM-DD
	AttendanceRecordTime    string `gorm:"not null;column:attendance_records_time" json:"attendance_records_time"` // HH:MM:SS

	// (0,0) untuk entri manual guru dan baris Absent hasil sweep.
	AttendanceRecordLat float64 `gorm:"column:attendance_records_lat" json:"attendance_records_lat"`
	AttendanceRecordLng float64 `gorm:"column:attendance_records_lng" json:"attendance_records_lng"`

	AttendanceRecordStatus string `gorm:"not null;default:Present;column:attendance_records_status" json:"attendance_records_status"`

	AttendanceRecordCreatedAt time.Time `gorm:"column:attendance_records_created_at;autoCreateTime" json:"attendance_records_created_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }
