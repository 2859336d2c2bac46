package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	recordModel "absensiku_backend/internals/features/attendance/records/model"
	sessionModel "absensiku_backend/internals/features/attendance/sessions/model"
	studentModel "absensiku_backend/internals/features/attendance/students/model"
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

	if err := db.AutoMigrate(
		&studentModel.StudentModel{},
		&sessionModel.AttendanceSessionModel{},
		&recordModel.AttendanceRecordModel{},
	); err != nil {
		t.Fatalf("migrasi skema test: %v", err)
	}
	return db
}

func TestAppendIdempotence(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)
	sessionId := uuid.New()

	first, err := ledger.Append(sessionId, "1RV21CS001", "Matematika", recordModel.StatusPresent, -6.2, 106.8)
	if err != nil {
		t.Fatalf("append pertama gagal: %v", err)
	}
	if first.AttendanceRecordStatus != recordModel.StatusPresent {
		t.Fatalf("status = %q, want Present", first.AttendanceRecordStatus)
	}

	// Percobaan kedua untuk pasangan yang sama harus kalah di
	// constraint storage, bukan di cek aplikasi.
	_, err = ledger.Append(sessionId, "1RV21CS001", "Matematika", recordModel.StatusPresent, -6.2, 106.8)
	if !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("append kedua: err = %v, want ErrAlreadyMarked", err)
	}

	var n int64
	db.Model(&recordModel.AttendanceRecordModel{}).
		Where("attendance_records_session_id = ?", sessionId).
		Count(&n)
	if n != 1 {
		t.Fatalf("jumlah baris = %d, want 1", n)
	}
}

func TestAppendSameStudentDifferentSessions(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	if _, err := ledger.Append(uuid.New(), "1RV21CS001", "Matematika", recordModel.StatusPresent, 0, 0); err != nil {
		t.Fatalf("sesi pertama: %v", err)
	}
	if _, err := ledger.Append(uuid.New(), "1RV21CS001", "Fisika", recordModel.StatusPresent, 0, 0); err != nil {
		t.Fatalf("sesi kedua: siswa yang sama harus boleh, err = %v", err)
	}
}

func TestBulkAppendAbsentPartialConflict(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)
	sessionId := uuid.New()

	// A sudah hadir sebelum sweep jalan.
	if _, err := ledger.Append(sessionId, "A", "Kimia", recordModel.StatusPresent, -6.2, 106.8); err != nil {
		t.Fatalf("seed hadir: %v", err)
	}

	// Sweep menyapu A, B, C: konflik di A harus di-drop per baris,
	// bukan menggagalkan batch.
	inserted, err := ledger.BulkAppendAbsent(sessionId, "Kimia", []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("bulk append: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}

	// A tetap Present.
	var a recordModel.AttendanceRecordModel
	if err := db.Where("attendance_records_session_id = ? AND attendance_records_roll_no = ?", sessionId, "A").
		First(&a).Error; err != nil {
		t.Fatalf("baca baris A: %v", err)
	}
	if a.AttendanceRecordStatus != recordModel.StatusPresent {
		t.Fatalf("A berubah jadi %q, harusnya tetap Present", a.AttendanceRecordStatus)
	}

	present, absent, err := ledger.Counts(sessionId)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if present != 1 || absent != 2 {
		t.Fatalf("counts = (%d, %d), want (1, 2)", present, absent)
	}
}

func TestBulkAppendAbsentEmpty(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	inserted, err := ledger.BulkAppendAbsent(uuid.New(), "Kimia", nil)
	if err != nil || inserted != 0 {
		t.Fatalf("batch kosong: (%d, %v), want (0, nil)", inserted, err)
	}
}

func TestListBySessionNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)
	sessionId := uuid.New()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, roll := range []string{"A", "B", "C"} {
		rec := recordModel.AttendanceRecordModel{
			AttendanceRecordId:        uuid.New(),
			AttendanceRecordSessionId: sessionId,
			AttendanceRecordRollNo:    roll,
			AttendanceRecordSubject:   "Kimia",
			AttendanceRecordDate:      "2025-03-01",
			AttendanceRecordTime:      "08:00:00",
			AttendanceRecordStatus:    recordModel.StatusPresent,
			AttendanceRecordCreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&rec).Error; err != nil {
			t.Fatalf("seed %s: %v", roll, err)
		}
	}

	got, err := ledger.ListBySession(sessionId)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"C", "B", "A"}
	for i, roll := range want {
		if got[i].AttendanceRecordRollNo != roll {
			t.Errorf("urutan[%d] = %s, want %s", i, got[i].AttendanceRecordRollNo, roll)
		}
	}
}

func TestListByStudentSubjectFilter(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedgerService(db)

	if _, err := ledger.Append(uuid.New(), "A", "Matematika", recordModel.StatusPresent, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Append(uuid.New(), "A", "Fisika", recordModel.StatusAbsent, 0, 0); err != nil {
		t.Fatal(err)
	}

	all, err := ledger.ListByStudent("A", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("tanpa filter: (%d, %v), want 2 baris", len(all), err)
	}

	fisika, err := ledger.ListByStudent("A", "Fisika")
	if err != nil || len(fisika) != 1 || fisika[0].AttendanceRecordSubject != "Fisika" {
		t.Fatalf("filter Fisika salah: %+v, %v", fisika, err)
	}
}
