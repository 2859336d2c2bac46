// internals/features/attendance/export/exporter.go
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"absensiku_backend/internals/features/attendance/records/model"
)

const sheetName = "Attendance"

// Header kolom mengikuti format rekap yang dipakai guru.
var headers = []string{
	"RollNumber", "Subject", "Date", "Time", "Status",
	"Location (Lat)", "Location (Lng)", "MarkedAt",
}

// SessionWorkbook: serializer murni record → file xlsx. Tidak menyentuh
// DB; controller yang bertanggung jawab atas otorisasi dan query.
func SessionWorkbook(records []model.AttendanceRecordModel) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("buat sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range records {
		values := []any{
			r.AttendanceRecordRollNo,
			r.AttendanceRecordSubject,
			r.AttendanceRecordDate,
			r.AttendanceRecordTime,
			r.AttendanceRecordStatus,
			r.AttendanceRecordLat,
			r.AttendanceRecordLng,
			r.AttendanceRecordCreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("tulis workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename untuk header Content-Disposition.
func Filename(sessionId string) string {
	return fmt.Sprintf("attendance_%s.xlsx", sessionId)
}
