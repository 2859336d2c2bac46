// internals/features/attendance/realtime/ws_handler.go
package realtime

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// UpgradeGuard menolak request non-WebSocket sebelum sampai ke handler.
func UpgradeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// SessionWatcher: dashboard guru (atau co-teacher) subscribe ke channel
// presence satu sesi, menerima presenceUpdated dan sessionClosed.
func SessionWatcher(b Broadcaster) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sessionId := conn.Params("session_id")
		if sessionId == "" {
			_ = conn.Close()
			return
		}

		events, cancel := b.Subscribe(sessionId)
		defer cancel()

		// Reader hanya untuk mendeteksi close dari sisi client.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("[INFO] watcher sesi %s putus: %v", sessionId, err)
					return
				}
				if ev.Type == EventSessionClosed {
					// Sesi sudah terminal, tidak ada event lagi setelah ini.
					return
				}
			case <-done:
				return
			}
		}
	})
}
