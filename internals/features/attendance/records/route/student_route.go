package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensiku_backend/internals/configs"
	"absensiku_backend/internals/constants"
	"absensiku_backend/internals/features/attendance/realtime"
	recordCtrl "absensiku_backend/internals/features/attendance/records/controller"
	recordService "absensiku_backend/internals/features/attendance/records/service"
	sessionService "absensiku_backend/internals/features/attendance/sessions/service"
	"absensiku_backend/internals/middlewares"
	authMiddleware "absensiku_backend/internals/middlewares/auth"
)

// Route siswa: check-in (QR & kode kelas) + riwayat + statistik.
// Guard role per route (prefix /attendance dipakai bersama route guru);
// endpoint mark tambah rate limiter khusus.
func AttendanceStudentRoutes(r fiber.Router, db *gorm.DB, bc realtime.Broadcaster) {
	sessions := sessionService.NewSessionService(db)
	ledger := recordService.NewLedgerService(db)
	checkIn := recordService.NewCheckInService(db, sessions, ledger, bc, configs.Campus)
	ctrl := recordCtrl.NewAttendanceController(db, checkIn, ledger, sessions)

	studentOnly := authMiddleware.RequireRoles("kehadiran", constants.RoleStudent)

	group := r.Group("/attendance")
	group.Post("/mark", studentOnly, middlewares.CheckInRateLimiter(), ctrl.Mark)
	group.Post("/mark-by-code", studentOnly, middlewares.CheckInRateLimiter(), ctrl.MarkByCode)
	group.Get("/student", studentOnly, ctrl.GetStudentAttendance)
	group.Get("/student/stats", studentOnly, ctrl.GetStudentStats)
}
