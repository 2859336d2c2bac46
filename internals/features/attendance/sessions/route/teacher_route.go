package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensiku_backend/internals/constants"
	"absensiku_backend/internals/features/attendance/realtime"
	recordService "absensiku_backend/internals/features/attendance/records/service"
	sessionCtrl "absensiku_backend/internals/features/attendance/sessions/controller"
	sessionService "absensiku_backend/internals/features/attendance/sessions/service"
	authMiddleware "absensiku_backend/internals/middlewares/auth"
)

// Route guru: lifecycle sesi + analytics. Prefix /sessions hanya dipakai
// guru, jadi guard role aman dipasang di level group.
func AttendanceSessionsTeacherRoutes(r fiber.Router, db *gorm.DB, bc realtime.Broadcaster) {
	sessions := sessionService.NewSessionService(db)
	ledger := recordService.NewLedgerService(db)
	closer := sessionService.NewSessionCloser(db, sessions, ledger, bc)
	ctrl := sessionCtrl.NewSessionController(db, sessions, closer, ledger)

	group := r.Group("/sessions",
		authMiddleware.RequireRoles("kelola sesi", constants.RoleTeacher),
	)
	group.Post("/", ctrl.CreateSession)
	group.Get("/", ctrl.GetActiveSessions)
	group.Get("/history", ctrl.GetHistory)
	group.Get("/analytics", ctrl.GetAnalytics)
	group.Put("/:session_id/end", ctrl.EndSession)
}
