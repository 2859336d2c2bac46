// internals/features/attendance/realtime/broadcaster.go
package realtime

import "encoding/json"

// Nama event yang dikirim ke subscriber dashboard.
const (
	EventPresenceUpdated = "presenceUpdated"
	EventSessionClosed   = "sessionClosed"
)

type PresenceUpdatedPayload struct {
	RollNo        string `json:"rollNo"`
	Name          string `json:"name"`
	SessionId     string `json:"sessionId"`
	PresentCount  int64  `json:"presentCount"`
	TotalStudents int    `json:"totalStudents"`
	Time          string `json:"time"`
}

type SessionClosedPayload struct {
	SessionId    string `json:"sessionId"`
	PresentCount int64  `json:"presentCount"`
	AbsentCount  int64  `json:"absentCount"`
}

// Event adalah amplop yang melewati channel per-sesi.
type Event struct {
	Type string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Broadcaster: fanout pub/sub keyed sessionId. Delivery best-effort —
// ledger tetap satu-satunya sumber kebenaran; event hanya untuk refresh
// UI live. Subscriber lambat tidak boleh memblokir jalur check-in.
type Broadcaster interface {
	PublishPresenceUpdated(sessionId string, p PresenceUpdatedPayload)
	PublishSessionClosed(sessionId string, p SessionClosedPayload)

	// Subscribe mengembalikan channel event untuk satu sesi plus fungsi
	// cancel yang wajib dipanggil saat watcher pergi.
	Subscribe(sessionId string) (<-chan Event, func())
}

func marshalEvent(eventType string, payload any) (Event, bool) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, false
	}
	return Event{Type: eventType, Data: raw}, true
}
