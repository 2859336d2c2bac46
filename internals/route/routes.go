// file: internals/route/routes.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensiku_backend/internals/features/attendance/realtime"
	recordRoute "absensiku_backend/internals/features/attendance/records/route"
	sessionRoute "absensiku_backend/internals/features/attendance/sessions/route"
	authMiddleware "absensiku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, bc realtime.Broadcaster) {
	// ===================== API (AUTH) =====================
	// Auth dipasang sekali di prefix /api. Role guard TIDAK boleh
	// dipasang di sini: Group memasang handler lewat Use pada prefix,
	// jadi guard di /api ikut jalan untuk semua route /api — route
	// guru dan siswa saling memblokir. Guard role dipasang di masing-
	// masing route group fitur.
	log.Println("[INFO] Setting up /api group (Auth)...")
	api := app.Group("/api", authMiddleware.AuthMiddleware())

	log.Println("[INFO] Mounting attendance routes...")
	sessionRoute.AttendanceSessionsTeacherRoutes(api, db, bc)
	recordRoute.AttendanceTeacherRoutes(api, db, bc)
	recordRoute.AttendanceStudentRoutes(api, db, bc)

	// ===================== REALTIME =====================
	// Dashboard live: subscribe event presenceUpdated / sessionClosed
	// untuk satu sesi.
	log.Println("[INFO] Setting up WebSocket watcher...")
	app.Use("/ws/sessions/:session_id", realtime.UpgradeGuard())
	app.Get("/ws/sessions/:session_id", realtime.SessionWatcher(bc))
}
