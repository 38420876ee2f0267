package session

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	base := 2 * time.Second
	max := 15 * time.Second

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 15 * time.Second},
		{4, 15 * time.Second},
		{10, 15 * time.Second},
	}

	for _, tt := range tests {
		if got := backoffDelay(base, max, tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(attempt=%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestHeartbeat_StaleFiresOnce(t *testing.T) {
	var stale atomic.Int32

	h := newHeartbeat(
		10*time.Millisecond,
		20*time.Millisecond,
		func() error { return nil },
		func() { stale.Add(1) },
		slog.Default(),
	)
	h.start()
	defer h.stop()

	// Several ping intervals pass with no pong; the deadline should fire
	// exactly once
	time.Sleep(200 * time.Millisecond)

	if got := stale.Load(); got != 1 {
		t.Errorf("onStale fired %d times, want 1", got)
	}
}

func TestHeartbeat_PongCancelsDeadline(t *testing.T) {
	var stale atomic.Int32

	h := newHeartbeat(
		time.Hour, // ticker never fires; drive arm/pong directly
		30*time.Millisecond,
		func() error { return nil },
		func() { stale.Add(1) },
		slog.Default(),
	)
	defer h.stop()

	h.arm()
	h.pong()

	time.Sleep(80 * time.Millisecond)

	if got := stale.Load(); got != 0 {
		t.Errorf("onStale fired %d times after pong, want 0", got)
	}
}

func TestHeartbeat_StopCancelsDeadline(t *testing.T) {
	var stale atomic.Int32

	h := newHeartbeat(
		time.Hour,
		20*time.Millisecond,
		func() error { return nil },
		func() { stale.Add(1) },
		slog.Default(),
	)

	h.arm()
	h.stop()

	time.Sleep(60 * time.Millisecond)

	if got := stale.Load(); got != 0 {
		t.Errorf("onStale fired %d times after stop, want 0", got)
	}
}

func TestHeartbeat_SendFailureSkipsDeadline(t *testing.T) {
	var stale atomic.Int32

	h := newHeartbeat(
		10*time.Millisecond,
		15*time.Millisecond,
		func() error { return errors.New("send failed") },
		func() { stale.Add(1) },
		slog.Default(),
	)
	h.start()
	defer h.stop()

	// A ping that never left must not arm a pong deadline; the transport
	// error path owns that failure
	time.Sleep(100 * time.Millisecond)

	if got := stale.Load(); got != 0 {
		t.Errorf("onStale fired %d times after send failures, want 0", got)
	}
}
