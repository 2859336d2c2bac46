package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"absensiku_backend/internals/configs"
	database "absensiku_backend/internals/databases"
	"absensiku_backend/internals/features/attendance/realtime"
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

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrasi skema test: %v", err)
	}
	return db
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	configs.JWTSecret = "rahasia-test"
	configs.Campus = configs.CampusGeofence{Lat: -6.2000, Lng: 106.8167, RadiusM: 500}

	app := fiber.New()
	SetupRoutes(app, openTestDB(t), realtime.NewHub())
	return app
}

func signToken(t *testing.T, userID, role, rollNo string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	if rollNo != "" {
		claims["roll_no"] = rollNo
		claims["name"] = "Andi Pratama"
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		t.Fatalf("sign token test: %v", err)
	}
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, target, token, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// Route guru dan siswa hidup berdampingan di prefix /api yang sama.
// Guard role harus melekat ke route masing-masing: siswa tetap bisa
// check-in dan membaca riwayatnya meskipun route guru terdaftar lebih
// dulu, dan sebaliknya masing-masing ditolak di wilayah role lain.
func TestRoutesRoleSeparation(t *testing.T) {
	app := newTestApp(t)

	teacherToken := signToken(t, uuid.New().String(), "teacher", "")
	studentToken := signToken(t, uuid.New().String(), "student", "2021001")

	// Guru membuka sesi.
	resp := doRequest(t, app, fiber.MethodPost, "/api/sessions", teacherToken,
		`{"subject":"Basis Data","durationMinutes":60,"roster":["2021001"]}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create sesi: status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}
	var created struct {
		SessionId string `json:"sessionId"`
	}
	decodeData(t, resp, &created)
	if created.SessionId == "" {
		t.Fatal("create sesi: sessionId kosong")
	}

	// Siswa check-in dari dalam radius kampus.
	markBody := fmt.Sprintf(`{"sessionId":%q,"location":{"lat":-6.2000,"lng":106.8167}}`, created.SessionId)
	resp = doRequest(t, app, fiber.MethodPost, "/api/attendance/mark", studentToken, markBody)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("mark siswa: status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}

	// Siswa membaca riwayat sendiri.
	resp = doRequest(t, app, fiber.MethodGet, "/api/attendance/student", studentToken, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("riwayat siswa: status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	// Siswa tidak boleh masuk wilayah guru.
	resp = doRequest(t, app, fiber.MethodGet, "/api/sessions", studentToken, "")
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("siswa ke route guru: status = %d, want %d", resp.StatusCode, fiber.StatusForbidden)
	}

	// Guru tidak boleh masuk wilayah siswa.
	resp = doRequest(t, app, fiber.MethodGet, "/api/attendance/student", teacherToken, "")
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("guru ke route siswa: status = %d, want %d", resp.StatusCode, fiber.StatusForbidden)
	}
}

// Rekap sesi milik guru dibalas dengan key "records" (selaras dengan
// bentuk riwayat sesi) dan tanpa token ditolak sebelum sampai handler.
func TestSessionAttendanceShapeAndAuth(t *testing.T) {
	app := newTestApp(t)

	teacherToken := signToken(t, uuid.New().String(), "teacher", "")
	studentToken := signToken(t, uuid.New().String(), "student", "2021002")

	resp := doRequest(t, app, fiber.MethodPost, "/api/sessions", teacherToken,
		`{"subject":"Algoritma","durationMinutes":45}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create sesi: status = %d", resp.StatusCode)
	}
	var created struct {
		SessionId string `json:"sessionId"`
	}
	decodeData(t, resp, &created)

	markBody := fmt.Sprintf(`{"sessionId":%q,"location":{"lat":-6.2000,"lng":106.8167}}`, created.SessionId)
	if resp := doRequest(t, app, fiber.MethodPost, "/api/attendance/mark", studentToken, markBody); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("mark siswa: status = %d", resp.StatusCode)
	}

	resp = doRequest(t, app, fiber.MethodGet, "/api/attendance/session/"+created.SessionId, teacherToken, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("rekap sesi: status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	var data struct {
		Records      []map[string]any `json:"records"`
		PresentCount int64            `json:"presentCount"`
	}
	decodeData(t, resp, &data)
	if len(data.Records) != 1 || data.PresentCount != 1 {
		t.Fatalf("rekap sesi: records=%d presentCount=%d, want 1/1", len(data.Records), data.PresentCount)
	}
	if data.Records[0]["rollNo"] != "2021002" {
		t.Fatalf("rekap sesi: rollNo = %v, want 2021002", data.Records[0]["rollNo"])
	}

	// Tanpa token: auth boundary menolak di prefix /api.
	req := httptest.NewRequest(fiber.MethodGet, "/api/attendance/student", nil)
	noTokenResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request tanpa token: %v", err)
	}
	if noTokenResp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("tanpa token: status = %d, want %d", noTokenResp.StatusCode, fiber.StatusUnauthorized)
	}
}
