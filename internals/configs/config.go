package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Geofence kampus: titik pusat + radius meter.
// Dipakai CheckInService untuk validasi lokasi (tidak boleh hard-coded).
type CampusGeofence struct {
	Lat     float64
	Lng     float64
	RadiusM float64
}

var (
	JWTSecret string
	Campus    CampusGeofence
	RedisAddr string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	// Geofence kampus (wajib untuk endpoint check-in)
	Campus = CampusGeofence{
		Lat:     GetEnvFloat("CAMPUS_LAT", 0),
		Lng:     GetEnvFloat("CAMPUS_LNG", 0),
		RadiusM: GetEnvFloat("CAMPUS_RADIUS_M", 500),
	}
	if Campus.Lat == 0 && Campus.Lng == 0 {
		log.Println("⚠️ CAMPUS_LAT/CAMPUS_LNG belum diset, geofence memakai (0,0)")
	} else {
		log.Printf("✅ Geofence kampus: (%f, %f) radius %.0fm", Campus.Lat, Campus.Lng, Campus.RadiusM)
	}

	// Opsional: kalau diset, broadcaster pindah ke Redis pub/sub
	RedisAddr = os.Getenv("REDIS_ADDR")
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("⚠️ %s bukan angka valid (%q), pakai default %v", key, v, fallback)
		return fallback
	}
	return f
}
