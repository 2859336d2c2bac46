// internals/features/attendance/realtime/redis.go
package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "attendance:sessions:"

// RedisBroadcaster membawa fanout lewat Redis pub/sub supaya beberapa
// instance proses bisa berbagi channel presence tanpa mengubah kontrak
// komponen. Tetap best-effort: publish gagal hanya dicatat di log.
type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(addr string) (*RedisBroadcaster, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisBroadcaster{rdb: rdb}, nil
}

func (b *RedisBroadcaster) PublishPresenceUpdated(sessionId string, p PresenceUpdatedPayload) {
	b.publish(sessionId, EventPresenceUpdated, p)
}

func (b *RedisBroadcaster) PublishSessionClosed(sessionId string, p SessionClosedPayload) {
	b.publish(sessionId, EventSessionClosed, p)
}

func (b *RedisBroadcaster) publish(sessionId, eventType string, payload any) {
	ev, ok := marshalEvent(eventType, payload)
	if !ok {
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.rdb.Publish(context.Background(), channelPrefix+sessionId, raw).Err(); err != nil {
		log.Printf("[WARNING] publish redis gagal (session %s): %v", sessionId, err)
	}
}

func (b *RedisBroadcaster) Subscribe(sessionId string) (<-chan Event, func()) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	ps := b.rdb.Subscribe(ctx, channelPrefix+sessionId)

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			default:
				// sama seperti Hub: drop kalau subscriber tidak mengejar
			}
		}
	}()

	cancel := func() {
		_ = ps.Close()
		cancelCtx()
	}
	return out, cancel
}

func (b *RedisBroadcaster) Close() error { return b.rdb.Close() }
