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
	authMiddleware "absensiku_backend/internals/middlewares/auth"
)

// Route guru: manual mark, rekap sesi, export xlsx. Prefix /attendance
// dipakai bersama route siswa, jadi guard role dipasang per route —
// guard di level group (Use pada prefix) akan ikut memblokir route
// siswa.
func AttendanceTeacherRoutes(r fiber.Router, db *gorm.DB, bc realtime.Broadcaster) {
	sessions := sessionService.NewSessionService(db)
	ledger := recordService.NewLedgerService(db)
	checkIn := recordService.NewCheckInService(db, sessions, ledger, bc, configs.Campus)
	ctrl := recordCtrl.NewAttendanceController(db, checkIn, ledger, sessions)

	teacherOnly := authMiddleware.RequireRoles("kehadiran", constants.RoleTeacher)

	group := r.Group("/attendance")
	group.Post("/manual-mark", teacherOnly, ctrl.ManualMark)
	group.Get("/session/:session_id", teacherOnly, ctrl.GetSessionAttendance)
	group.Get("/export/:session_id", teacherOnly, ctrl.Export)
}
