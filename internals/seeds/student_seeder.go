package seeds

import (
	"log"

	"gorm.io/gorm"

	"absensiku_backend/internals/features/attendance/students/model"
)

// Roster contoh untuk pengembangan lokal. FirstOrCreate per roll_no
// supaya aman dijalankan berulang kali.
var sampleStudents = []model.StudentModel{
	{StudentRollNo: "2021001", StudentName: "Andi Pratama", StudentDept: "Informatika", StudentYear: 2021},
	{StudentRollNo: "2021002", StudentName: "Budi Santoso", StudentDept: "Informatika", StudentYear: 2021},
	{StudentRollNo: "2021003", StudentName: "Citra Lestari", StudentDept: "Sistem Informasi", StudentYear: 2021},
	{StudentRollNo: "2022001", StudentName: "Dewi Anggraini", StudentDept: "Informatika", StudentYear: 2022},
	{StudentRollNo: "2022002", StudentName: "Eko Wijaya", StudentDept: "Sistem Informasi", StudentYear: 2022},
}

func SeedStudents(db *gorm.DB) {
	for _, s := range sampleStudents {
		var existing model.StudentModel
		err := db.Where("students_roll_no = ?", s.StudentRollNo).First(&existing).Error
		if err == nil {
			continue // sudah ada, lewati
		}
		if err := db.Create(&s).Error; err != nil {
			log.Printf("❌ Gagal seed student %s: %v", s.StudentRollNo, err)
			continue
		}
		log.Printf("✅ Seed student %s (%s)", s.StudentRollNo, s.StudentName)
	}
}
