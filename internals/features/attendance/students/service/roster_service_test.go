package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	recordModel "absensiku_backend/internals/features/attendance/records/model"
	"absensiku_backend/internals/features/attendance/students/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("buka sqlite in-memory: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("ambil sql.DB: %v", err)
	}
	// Satu koneksi supaya :memory: tidak pecah jadi beberapa DB.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.StudentModel{}, &recordModel.AttendanceRecordModel{}); err != nil {
		t.Fatalf("migrasi skema test: %v", err)
	}
	return db
}

func testRecord(sessionId uuid.UUID, rollNo string) recordModel.AttendanceRecordModel {
	return recordModel.AttendanceRecordModel{
		AttendanceRecordId:        uuid.New(),
		AttendanceRecordSessionId: sessionId,
		AttendanceRecordRollNo:    rollNo,
		AttendanceRecordSubject:   "Matematika",
		AttendanceRecordDate:      "2026-08-29",
		AttendanceRecordTime:      "08:00:00",
		AttendanceRecordStatus:    recordModel.StatusPresent,
		AttendanceRecordCreatedAt: time.Now(),
	}
}

func TestEnrichRecordsAttachesProfiles(t *testing.T) {
	db := openTestDB(t)
	roster := NewRosterService(db)

	if err := db.Create(&model.StudentModel{
		StudentRollNo: "A", StudentName: "Andi", StudentDept: "Informatika", StudentYear: 2021,
	}).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	sessionId := uuid.New()
	records := []recordModel.AttendanceRecordModel{
		testRecord(sessionId, "A"),
		testRecord(sessionId, "Z"), // tidak ada di roster
	}

	out := roster.EnrichRecords(records)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (record tanpa profil tetap tampil)", len(out))
	}

	if out[0]["name"] != "Andi" || out[0]["dept"] != "Informatika" {
		t.Fatalf("record A: name=%v dept=%v, want Andi/Informatika", out[0]["name"], out[0]["dept"])
	}
	if out[0]["status"] != recordModel.StatusPresent {
		t.Fatalf("record A: status = %v, want Present", out[0]["status"])
	}

	// Roll number tanpa profil: field profil tidak dilampirkan.
	if _, ok := out[1]["name"]; ok {
		t.Fatalf("record Z: tidak boleh membawa field name, got %v", out[1]["name"])
	}
	if out[1]["rollNo"] != "Z" {
		t.Fatalf("record Z: rollNo = %v, want Z", out[1]["rollNo"])
	}
}

func TestProfilesByRollNosEmpty(t *testing.T) {
	db := openTestDB(t)
	roster := NewRosterService(db)

	if got := roster.ProfilesByRollNos(nil); len(got) != 0 {
		t.Fatalf("roll numbers kosong: len = %d, want 0", len(got))
	}
	if out := roster.EnrichRecords(nil); len(out) != 0 {
		t.Fatalf("records kosong: len = %d, want 0", len(out))
	}
}
