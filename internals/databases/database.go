package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"absensiku_backend/internals/configs"
	recordModel "absensiku_backend/internals/features/attendance/records/model"
	sessionModel "absensiku_backend/internals/features/attendance/sessions/model"
	studentModel "absensiku_backend/internals/features/attendance/students/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := configs.GetEnvOr("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=absensiku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		// Duplikat (session_id, roll_no) harus terbaca sebagai gorm.ErrDuplicatedKey,
		// bukan error driver mentah. Ledger bergantung pada ini.
		TranslateError: true,
	})
	if err != nil {
		// Satu-satunya kondisi fatal: persistence tidak bisa dihubungi saat startup.
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")

	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Gagal migrasi skema: %v", err)
	}
	log.Println("✅ Skema attendance siap.")
}

// Migrate menyiapkan tabel inti. Dipisah supaya test bisa panggil
// dengan driver sqlite in-memory.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&studentModel.StudentModel{},
		&sessionModel.AttendanceSessionModel{},
		&recordModel.AttendanceRecordModel{},
	)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Println("⚠️ Gagal ambil sql.DB untuk tuning pool:", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}
