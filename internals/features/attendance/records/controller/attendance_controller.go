// internals/features/attendance/records/controller/attendance_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"absensiku_backend/internals/features/attendance/export"
	"absensiku_backend/internals/features/attendance/records/dto"
	"absensiku_backend/internals/features/attendance/records/service"
	sessionService "absensiku_backend/internals/features/attendance/sessions/service"
	"absensiku_backend/internals/features/attendance/stats"
	studentService "absensiku_backend/internals/features/attendance/students/service"
	helper "absensiku_backend/internals/helpers"
)

type AttendanceController struct {
	DB       *gorm.DB
	CheckIn  *service.CheckInService
	Ledger   *service.LedgerService
	Sessions *sessionService.SessionService
	Roster   *studentService.RosterService
}

var validate = validator.New()

func NewAttendanceController(db *gorm.DB, checkIn *service.CheckInService, ledger *service.LedgerService, sessions *sessionService.SessionService) *AttendanceController {
	return &AttendanceController{
		DB:       db,
		CheckIn:  checkIn,
		Ledger:   ledger,
		Sessions: sessions,
		Roster:   studentService.NewRosterService(db),
	}
}

/* ===================== STUDENT: CHECK-IN ===================== */

// ✅ POST /api/attendance/mark — check-in via scan QR
func (ctrl *AttendanceController) Mark(c *fiber.Ctx) error {
	rollNo, err := helper.GetRollNoFromToken(c)
	if err != nil {
		return err
	}

	var req dto.MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	result, err := ctrl.CheckIn.MarkBySessionId(sessionId, rollNo, *req.Location.Lat, *req.Location.Lng)
	return ctrl.respondCheckIn(c, result, err)
}

// ✅ POST /api/attendance/mark-by-code — check-in via kode kelas 6 digit
func (ctrl *AttendanceController) MarkByCode(c *fiber.Ctx) error {
	rollNo, err := helper.GetRollNoFromToken(c)
	if err != nil {
		return err
	}

	var req dto.MarkByCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.CheckIn.MarkByClassCode(req.ClassCode, rollNo, *req.Location.Lat, *req.Location.Lng)
	return ctrl.respondCheckIn(c, result, err)
}

// respondCheckIn memetakan semua outcome check-in ke envelope JSON.
// Duplikat dibalas 200 sukses, bukan error.
func (ctrl *AttendanceController) respondCheckIn(c *fiber.Ctx, result *service.CheckInResult, err error) error {
	if err != nil {
		var geoErr *service.GeofenceError
		switch {
		case errors.Is(err, sessionService.ErrSessionNotFound):
			return helper.Error(c, fiber.StatusNotFound, "Sesi tidak ditemukan atau sudah berakhir")
		case errors.Is(err, sessionService.ErrSessionExpired):
			return helper.Error(c, fiber.StatusBadRequest, "Sesi sudah kedaluwarsa")
		case errors.As(err, &geoErr):
			return helper.Error(c, fiber.StatusForbidden, geoErr.Error())
		default:
			log.Println("[ERROR] Gagal mencatat kehadiran:", err)
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal mencatat kehadiran")
		}
	}

	if result.AlreadyMarked {
		return helper.Success(c, "Kehadiran sudah tercatat sebelumnya ✅", fiber.Map{
			"alreadyMarked": true,
		})
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Kehadiran berhasil dicatat ✅", fiber.Map{
		"alreadyMarked": false,
		"rollNo":        result.Record.AttendanceRecordRollNo,
		"name":          result.StudentName,
		"subject":       result.Record.AttendanceRecordSubject,
		"date":          result.Record.AttendanceRecordDate,
		"time":          result.Record.AttendanceRecordTime,
		"presentCount":  result.PresentCount,
	})
}

/* ===================== TEACHER: MANUAL & REKAP ===================== */

// ✅ POST /api/attendance/manual-mark — guru menandai hadir tanpa geofence
func (ctrl *AttendanceController) ManualMark(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.ManualMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	result, err := ctrl.CheckIn.ManualMark(sessionId, teacherId, req.RollNo, req.StudentName)
	if errors.Is(err, sessionService.ErrSessionUnauthorized) {
		return helper.Error(c, fiber.StatusForbidden, "Sesi ini bukan milik Anda")
	}
	return ctrl.respondCheckIn(c, result, err)
}

// ✅ GET /api/attendance/session/:session_id — daftar kehadiran satu sesi
func (ctrl *AttendanceController) GetSessionAttendance(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}
	sessionId, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	sess, err := ctrl.Sessions.FindOwned(sessionId, teacherId)
	if err != nil {
		return sessionErrorResponse(c, err)
	}

	records, err := ctrl.Ledger.ListBySession(sessionId)
	if err != nil {
		log.Println("[ERROR] Gagal mengambil kehadiran sesi:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data kehadiran")
	}

	present, absent, err := ctrl.Ledger.Counts(sessionId)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung kehadiran")
	}

	return helper.Success(c, "Data kehadiran berhasil diambil", fiber.Map{
		"records":      ctrl.Roster.EnrichRecords(records),
		"subject":      sess.AttendanceSessionSubject,
		"active":       sess.AttendanceSessionActive,
		"presentCount": present,
		"absentCount":  absent,
	})
}

// ✅ GET /api/attendance/export/:session_id — unduh rekap xlsx
func (ctrl *AttendanceController) Export(c *fiber.Ctx) error {
	teacherId, err := helper.GetTeacherIDFromToken(c)
	if err != nil {
		return err
	}
	sessionId, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Session ID tidak valid")
	}

	if _, err := ctrl.Sessions.FindOwned(sessionId, teacherId); err != nil {
		return sessionErrorResponse(c, err)
	}

	records, err := ctrl.Ledger.ListBySession(sessionId)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data kehadiran")
	}
	if len(records) == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Belum ada data kehadiran untuk sesi ini")
	}

	workbook, err := export.SessionWorkbook(records)
	if err != nil {
		log.Println("[ERROR] Gagal membuat file export:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat file export")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename(sessionId.String())+`"`)
	return c.Send(workbook)
}

/* ===================== STUDENT: RIWAYAT & STATISTIK ===================== */

// ✅ GET /api/attendance/student?subject= — riwayat kehadiran siswa
func (ctrl *AttendanceController) GetStudentAttendance(c *fiber.Ctx) error {
	rollNo, err := helper.GetRollNoFromToken(c)
	if err != nil {
		return err
	}

	records, err := ctrl.Ledger.ListByStudent(rollNo, c.Query("subject"))
	if err != nil {
		log.Println("[ERROR] Gagal mengambil riwayat siswa:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat kehadiran")
	}

	return helper.Success(c, "Riwayat kehadiran berhasil diambil", records)
}

// ✅ GET /api/attendance/student/stats — rekap per mapel + feed terbaru
func (ctrl *AttendanceController) GetStudentStats(c *fiber.Ctx) error {
	rollNo, err := helper.GetRollNoFromToken(c)
	if err != nil {
		return err
	}

	records, err := ctrl.Ledger.ListByStudent(rollNo, "")
	if err != nil {
		log.Println("[ERROR] Gagal mengambil statistik siswa:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil statistik")
	}

	return helper.Success(c, "Statistik kehadiran berhasil diambil", fiber.Map{
		"overall":   stats.ComputeOverall(records),
		"bySubject": stats.BySubject(records),
		"recent":    stats.Recent(records, 10),
	})
}

/* ===================== INTERNAL ===================== */

func sessionErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	case errors.Is(err, sessionService.ErrSessionUnauthorized):
		return helper.Error(c, fiber.StatusForbidden, "Sesi ini bukan milik Anda")
	default:
		log.Println("[ERROR] Gagal mengambil sesi:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Terjadi kesalahan server")
	}
}
