// internals/features/attendance/students/model/student_model.go
package model

import "time"

// StudentModel = roster. Di service ini sifatnya read-only: registrasi
// dan manajemen akun diurus sistem lain, kita hanya resolve nama untuk
// display dan menghitung himpunan absen saat sesi ditutup.
type StudentModel struct {
	StudentRollNo    string    `gorm:"primaryKey;column:students_roll_no" json:"students_roll_no"`
	StudentName      string    `gorm:"not null;column:students_name" json:"students_name"`
	StudentDept      string    `gorm:"column:students_dept" json:"students_dept"`
	StudentYear      int       `gorm:"column:students_year" json:"students_year"`
	StudentCreatedAt time.Time `gorm:"column:students_created_at;autoCreateTime" json:"students_created_at"`
}

func (StudentModel) TableName() string { return "students" }
