// internals/features/attendance/students/service/roster_service.go
package service

import (
	"gorm.io/gorm"

	recordModel "absensiku_backend/internals/features/attendance/records/model"
	"absensiku_backend/internals/features/attendance/students/model"
)

// RosterService: lookup read-only profil siswa untuk kebutuhan display.
// Satu-satunya pemilik join record ↔ roster.
type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// ProfilesByRollNos: satu query batch, hasil dipetakan per roll number.
func (s *RosterService) ProfilesByRollNos(rollNos []string) map[string]model.StudentModel {
	out := make(map[string]model.StudentModel, len(rollNos))
	if len(rollNos) == 0 {
		return out
	}
	var rows []model.StudentModel
	if err := s.DB.Where("students_roll_no IN ?", rollNos).Find(&rows).Error; err != nil {
		return out // enrichment best-effort, record tetap tampil tanpa profil
	}
	for _, r := range rows {
		out[r.StudentRollNo] = r
	}
	return out
}

// EnrichRecords melampirkan nama/dept/year roster ke tiap record.
// Roll number tanpa profil tetap dikembalikan apa adanya, tanpa field
// profil.
func (s *RosterService) EnrichRecords(records []recordModel.AttendanceRecordModel) []map[string]any {
	rollNos := make([]string, 0, len(records))
	for _, r := range records {
		rollNos = append(rollNos, r.AttendanceRecordRollNo)
	}
	students := s.ProfilesByRollNos(rollNos)

	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		entry := map[string]any{
			"rollNo":  r.AttendanceRecordRollNo,
			"subject": r.AttendanceRecordSubject,
			"date":    r.AttendanceRecordDate,
			"time":    r.AttendanceRecordTime,
			"status":  r.AttendanceRecordStatus,
		}
		if st, ok := students[r.AttendanceRecordRollNo]; ok {
			entry["name"] = st.StudentName
			entry["dept"] = st.StudentDept
			entry["year"] = st.StudentYear
		}
		out = append(out, entry)
	}
	return out
}
