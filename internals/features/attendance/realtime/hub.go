// internals/features/attendance/realtime/hub.go
package realtime

import "sync"

// Buffer per subscriber; kalau penuh event di-drop, bukan ditunggu.
const subscriberBuffer = 16

// Hub adalah Broadcaster in-process: map sessionId -> himpunan channel
// subscriber. Cukup untuk satu instance; multi-instance pakai
// RedisBroadcaster dengan kontrak yang sama.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *Hub) PublishPresenceUpdated(sessionId string, p PresenceUpdatedPayload) {
	if ev, ok := marshalEvent(EventPresenceUpdated, p); ok {
		h.publish(sessionId, ev)
	}
}

func (h *Hub) PublishSessionClosed(sessionId string, p SessionClosedPayload) {
	if ev, ok := marshalEvent(EventSessionClosed, p); ok {
		h.publish(sessionId, ev)
	}
}

func (h *Hub) publish(sessionId string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[sessionId] {
		select {
		case ch <- ev:
		default:
			// subscriber penuh/lambat: drop, jangan blokir check-in
		}
	}
}

func (h *Hub) Subscribe(sessionId string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[sessionId] == nil {
		h.subs[sessionId] = make(map[chan Event]struct{})
	}
	h.subs[sessionId][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionId], ch)
			if len(h.subs[sessionId]) == 0 {
				delete(h.subs, sessionId)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
