// internals/features/attendance/sessions/dto/session_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"absensiku_backend/internals/features/attendance/sessions/model"
)

/* ===================== REQUEST ===================== */

type CreateSessionRequest struct {
	Subject         string   `json:"subject" validate:"required,min=1,max=120"`
	DurationMinutes int      `json:"durationMinutes" validate:"required,min=1,max=1440"`
	TotalStudents   int      `json:"totalStudents" validate:"omitempty,min=1"`
	Roster          []string `json:"roster" validate:"omitempty,dive,required"`
}

/* ===================== QR PAYLOAD ===================== */

// QrPayload: iklan sesi yang di-encode jadi QR di sisi client.
// Sengaja JSON compact tanpa gambar/binary supaya muat di renderer
// QR mana pun.
type QrPayload struct {
	SessionId string `json:"sessionId"`
	TeacherId string `json:"teacherId"`
	Subject   string `json:"subject"`
	Timestamp int64  `json:"timestamp"`
}

func BuildQrPayload(sessionId, teacherId uuid.UUID, subject string) datatypes.JSON {
	raw, _ := json.Marshal(QrPayload{
		SessionId: sessionId.String(),
		TeacherId: teacherId.String(),
		Subject:   subject,
		Timestamp: time.Now().UnixMilli(),
	})
	return datatypes.JSON(raw)
}

/* ===================== RESPONSE ===================== */

type SessionResponse struct {
	SessionId     string          `json:"sessionId"`
	Subject       string          `json:"subject"`
	ClassCode     string          `json:"classCode"`
	TotalStudents int             `json:"totalStudents"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
	Active        bool            `json:"active"`
	QrCode        json.RawMessage `json:"qrCode"`
}

func FromModel(m *model.AttendanceSessionModel) SessionResponse {
	// Timestamp payload di-refresh tiap kali sesi dikirim keluar,
	// mengikuti perilaku daftar sesi aktif.
	payload := BuildQrPayload(m.AttendanceSessionId, m.AttendanceSessionTeacherId, m.AttendanceSessionSubject)
	return SessionResponse{
		SessionId:     m.AttendanceSessionId.String(),
		Subject:       m.AttendanceSessionSubject,
		ClassCode:     m.AttendanceSessionClassCode,
		TotalStudents: m.AttendanceSessionTotalStudents,
		CreatedAt:     m.AttendanceSessionCreatedAt,
		ExpiresAt:     m.AttendanceSessionExpiresAt,
		Active:        m.AttendanceSessionActive,
		QrCode:        json.RawMessage(payload),
	}
}
