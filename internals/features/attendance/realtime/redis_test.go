package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisBroadcasterRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)

	b, err := NewRedisBroadcaster(srv.Addr())
	if err != nil {
		t.Fatalf("NewRedisBroadcaster: %v", err)
	}
	defer b.Close()

	events, cancel := b.Subscribe("sesi-1")
	defer cancel()

	// Beri waktu subscribe redis terpasang sebelum publish pertama.
	time.Sleep(50 * time.Millisecond)

	b.PublishSessionClosed("sesi-1", SessionClosedPayload{
		SessionId: "sesi-1", PresentCount: 1, AbsentCount: 2,
	})

	select {
	case ev := <-events:
		if ev.Type != EventSessionClosed {
			t.Fatalf("event = %q, want %q", ev.Type, EventSessionClosed)
		}
		var p SessionClosedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if p.PresentCount != 1 || p.AbsentCount != 2 {
			t.Fatalf("payload salah: %+v", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event tidak sampai lewat redis pub/sub")
	}
}

func TestRedisBroadcasterChannelIsolation(t *testing.T) {
	srv := miniredis.RunT(t)

	b, err := NewRedisBroadcaster(srv.Addr())
	if err != nil {
		t.Fatalf("NewRedisBroadcaster: %v", err)
	}
	defer b.Close()

	events, cancel := b.Subscribe("sesi-a")
	defer cancel()
	time.Sleep(50 * time.Millisecond)

	b.PublishPresenceUpdated("sesi-b", PresenceUpdatedPayload{RollNo: "X"})

	select {
	case ev := <-events:
		t.Fatalf("subscriber sesi-a menerima event sesi-b: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}
