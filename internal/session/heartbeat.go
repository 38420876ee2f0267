package session

import (
	"log/slog"
	"sync"
	"time"
)

// heartbeat probes liveness with app-level ping envelopes. After each sent
// ping it arms a pong deadline; a routed pong disarms it. A missed deadline
// fires onStale exactly once. All timers stop with the transport.
type heartbeat struct {
	interval time.Duration
	timeout  time.Duration
	send     func() error
	onStale  func()
	logger   *slog.Logger

	done chan struct{}

	mu        sync.Mutex
	pongTimer *time.Timer
	stopped   bool
	stale     bool
}

func newHeartbeat(interval, timeout time.Duration, send func() error, onStale func(), logger *slog.Logger) *heartbeat {
	return &heartbeat{
		interval: interval,
		timeout:  timeout,
		send:     send,
		onStale:  onStale,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (h *heartbeat) start() {
	go h.run()
}

func (h *heartbeat) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			if err := h.send(); err != nil {
				// Don't arm a deadline for a ping that never left;
				// the transport error path handles the closure
				h.logger.Debug("failed to send ping", "error", err)
				continue
			}
			h.arm()
		}
	}
}

// arm starts the pong deadline unless one is already pending.
func (h *heartbeat) arm() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped || h.stale || h.pongTimer != nil {
		return
	}
	h.pongTimer = time.AfterFunc(h.timeout, h.expire)
}

// pong cancels the pending deadline.
func (h *heartbeat) pong() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pongTimer != nil {
		h.pongTimer.Stop()
		h.pongTimer = nil
	}
}

func (h *heartbeat) expire() {
	h.mu.Lock()
	if h.stopped || h.stale {
		h.mu.Unlock()
		return
	}
	h.stale = true
	h.pongTimer = nil
	h.mu.Unlock()

	h.logger.Warn("no pong before deadline, connection stale", "timeout", h.timeout)
	h.onStale()
}

func (h *heartbeat) stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	if h.pongTimer != nil {
		h.pongTimer.Stop()
		h.pongTimer = nil
	}
	h.mu.Unlock()

	close(h.done)
}
