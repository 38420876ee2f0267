package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/clipforge/realtime/internal/connection"
	"github.com/clipforge/realtime/internal/model"
	"github.com/clipforge/realtime/internal/protocol"
	"github.com/clipforge/realtime/internal/router"
)

// Session is the process-wide shared connection. Construct one at
// application start and hand it (or Acquire'd references) to consumers;
// consumers never touch connection internals directly.
type Session struct {
	cfg     Config
	logger  *slog.Logger
	router  *router.Router
	fetcher router.TaskFetcher

	statusCh chan model.ConnStatus

	mu             sync.Mutex
	status         model.ConnStatus
	identity       string
	client         connection.Client
	hb             *heartbeat
	gen            int // transport generation; stale callbacks check it
	attempts       int
	reconnects     int64
	reconnectTimer *time.Timer
	debounceTimer  *time.Timer
	debounceGen    int // invalidates flushes from superseded debounce timers
	desired        map[string]struct{}
	onStatus       func(model.ConnStatus)
	refs           int
	closed         bool
}

// New creates a Session. fetcher may be nil, disabling final-state checks
// and cold-load refresh.
func New(cfg Config, handlers router.Handlers, fetcher router.TaskFetcher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		fetcher:  fetcher,
		statusCh: make(chan model.ConnStatus, 16),
		status:   model.StatusDisconnected,
		desired:  make(map[string]struct{}),
	}

	s.router = router.New(router.Config{
		FinalCheckDelay: cfg.FinalCheckDelay,
		FetchTimeout:    cfg.FetchTimeout,
	}, fetcher, handlers, logger)
	s.router.InterceptPong(func(protocol.Pong) { s.pongReceived() })

	go s.notifyLoop()

	return s
}

// OnStatus registers the status-change callback. Register before Connect.
func (s *Session) OnStatus(fn func(model.ConnStatus)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

// notifyLoop delivers status changes outside the session lock, in order.
func (s *Session) notifyLoop() {
	for st := range s.statusCh {
		s.mu.Lock()
		fn := s.onStatus
		s.mu.Unlock()
		if fn != nil {
			fn(st)
		}
	}
}

// setStatusLocked records a transition and queues the callback.
func (s *Session) setStatusLocked(st model.ConnStatus) {
	if s.status == st {
		return
	}
	s.status = st
	select {
	case s.statusCh <- st:
	default:
		s.logger.Warn("status callback queue full, dropping", "status", st)
	}
}

// Connect establishes the connection for the given identity. A no-op when
// already connected (or connecting) with the same identity; a different
// identity tears the old connection down first.
func (s *Session) Connect(ctx context.Context, identity string) error {
	if identity == "" {
		return ErrNoIdentity
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	switch s.status {
	case model.StatusConnected, model.StatusConnecting, model.StatusReconnecting:
		if identity == s.identity {
			s.mu.Unlock()
			return nil
		}
		s.logger.Info("switching identity",
			"old", s.identity,
			"new", identity,
		)
		s.stopTransportLocked()
		s.stopRetryLocked()
	}

	s.identity = identity
	s.attempts = 0
	s.setStatusLocked(model.StatusConnecting)
	s.mu.Unlock()

	if err := s.dial(ctx); err != nil {
		s.mu.Lock()
		if !s.closed && s.status == model.StatusConnecting {
			s.setStatusLocked(model.StatusDisconnected)
		}
		s.mu.Unlock()
		return err
	}

	return nil
}

// dial performs one connection attempt and, on success, installs the new
// transport, heartbeat, and read loop, then pushes the full desired set.
func (s *Session) dial(ctx context.Context) error {
	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()

	clientCfg := connection.ClientConfig{
		URL:              s.cfg.WSURL + "/ws/" + url.PathEscape(identity),
		HandshakeTimeout: s.cfg.HandshakeTimeout,
		WriteTimeout:     s.cfg.WriteTimeout,
		BufferSize:       s.cfg.BufferSize,
	}
	c := connection.NewClient(clientCfg, s.logger.With("identity", identity))

	if err := c.Connect(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed || s.identity != identity ||
		s.status == model.StatusDisconnected || s.status == model.StatusError {
		// Disconnected or switched identity while the handshake ran
		s.mu.Unlock()
		c.Close()
		return errDialSuperseded
	}

	s.gen++
	gen := s.gen
	s.client = c
	if s.attempts > 0 {
		s.reconnects++
	}
	s.attempts = 0
	s.setStatusLocked(model.StatusConnected)

	hb := newHeartbeat(
		s.cfg.PingInterval,
		s.cfg.PongTimeout,
		func() error { return s.Send(protocol.NewPing()) },
		func() { s.transportStale(gen) },
		s.logger,
	)
	s.hb = hb
	desired := s.desiredLocked()
	s.mu.Unlock()

	hb.start()
	go s.readLoop(c, gen)

	// The server keeps no subscription memory across disconnects; push the
	// full desired set on every (re)connect
	if len(desired) > 0 {
		if err := s.Send(protocol.NewSyncSubscriptions(desired)); err != nil {
			s.logger.Warn("subscription sync on connect failed", "error", err)
		}
	}

	go s.refreshChannels(desired)

	s.logger.Info("session connected", "identity", identity)

	return nil
}

// readLoop forwards inbound frames to the router until the transport ends.
func (s *Session) readLoop(c connection.Client, gen int) {
	for {
		select {
		case msg := <-c.Messages():
			s.router.Handle(msg.Data, msg.ReceivedAt)

		case err := <-c.Errors():
			s.handleUnexpectedClose(gen, err)
			return

		case <-c.Done():
			// Graceful close; no reconnection
			return
		}
	}
}

// transportStale is the heartbeat's missed-pong path.
func (s *Session) transportStale(gen int) {
	s.handleUnexpectedClose(gen, ErrPongTimeout)
}

// handleUnexpectedClose tears the transport down and schedules a retry.
// The generation check makes it safe to call from multiple paths (read
// error, heartbeat expiry) with at most one taking effect.
func (s *Session) handleUnexpectedClose(gen int, err error) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}

	s.logger.Warn("connection lost", "error", err)
	s.stopTransportLocked()
	s.scheduleRetryLocked()
	s.mu.Unlock()
}

// scheduleRetryLocked arms the single pending reconnect timer, or moves to
// the terminal error state when attempts are exhausted.
func (s *Session) scheduleRetryLocked() {
	if s.reconnectTimer != nil {
		return
	}

	s.attempts++
	if s.attempts > s.cfg.MaxReconnectAttempts {
		s.logger.Error("reconnect attempts exhausted",
			"attempts", s.cfg.MaxReconnectAttempts,
		)
		s.setStatusLocked(model.StatusError)
		return
	}

	delay := backoffDelay(s.cfg.ReconnectBaseDelay, s.cfg.ReconnectMaxDelay, s.attempts)
	s.setStatusLocked(model.StatusReconnecting)
	s.logger.Info("scheduling reconnect",
		"attempt", s.attempts,
		"delay", delay,
	)
	s.reconnectTimer = time.AfterFunc(delay, s.retry)
}

// retry is the reconnect timer body.
func (s *Session) retry() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.reconnectTimer = nil
	if s.status != model.StatusReconnecting {
		// Disconnected or reconnected through another path meanwhile
		s.mu.Unlock()
		return
	}
	s.setStatusLocked(model.StatusConnecting)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HandshakeTimeout)
	err := s.dial(ctx)
	cancel()

	if err != nil {
		s.logger.Warn("reconnect failed", "error", err)
		s.mu.Lock()
		if !s.closed && s.status == model.StatusConnecting {
			s.scheduleRetryLocked()
		}
		s.mu.Unlock()
	}
}

// stopTransportLocked closes the live transport and its heartbeat, and
// invalidates every callback tied to the old generation.
func (s *Session) stopTransportLocked() {
	s.gen++
	if s.hb != nil {
		s.hb.stop()
		s.hb = nil
	}
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	s.debounceGen++
}

// stopRetryLocked cancels a pending reconnect timer.
func (s *Session) stopRetryLocked() {
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
}

// Disconnect closes the connection without scheduling reconnection.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopTransportLocked()
	s.stopRetryLocked()
	s.attempts = 0
	s.setStatusLocked(model.StatusDisconnected)
}

// Close disconnects and permanently shuts the session down.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.stopTransportLocked()
	s.stopRetryLocked()
	s.attempts = 0
	s.setStatusLocked(model.StatusDisconnected)
	s.closed = true
	close(s.statusCh)
	s.mu.Unlock()

	s.router.Close()
}

// Acquire registers a consumer of the shared session.
func (s *Session) Acquire() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

// Release unregisters a consumer. When the last consumer releases, the
// connection is torn down (the session itself stays usable).
func (s *Session) Release() {
	s.mu.Lock()
	if s.refs > 0 {
		s.refs--
	}
	last := s.refs == 0
	s.mu.Unlock()

	if last {
		s.Disconnect()
	}
}

// Send transmits a command on the live transport. Fails fast with
// connection.ErrNotConnected while disconnected; never queues.
func (s *Session) Send(cmd protocol.Command) error {
	s.mu.Lock()
	c := s.client
	s.mu.Unlock()

	if c == nil {
		return connection.ErrNotConnected
	}

	data, err := cmd.Encode()
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	return c.Send(data)
}

// pongReceived forwards a routed pong to the live heartbeat.
func (s *Session) pongReceived() {
	s.mu.Lock()
	hb := s.hb
	s.mu.Unlock()

	if hb != nil {
		hb.pong()
	}
}

// Status returns the current connection status.
func (s *Session) Status() model.ConnStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Identity returns the identity of the active (or last) connection.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Stats returns a snapshot of session and router counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	stats := Stats{
		Status:     s.status,
		Identity:   s.identity,
		Attempts:   s.attempts,
		Reconnects: s.reconnects,
		Subscribed: len(s.desired),
	}
	s.mu.Unlock()

	stats.Router = s.router.Stats()
	return stats
}
