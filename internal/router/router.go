package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/clipforge/realtime/internal/model"
	"github.com/clipforge/realtime/internal/protocol"
)

// Router classifies inbound frames, filters stale progress events, and
// dispatches typed events to consumer handlers.
type Router struct {
	cfg      Config
	fetcher  TaskFetcher
	handlers Handlers
	logger   *slog.Logger

	// Pong interception; set by the session, runs before any dispatch
	pongFn func(protocol.Pong)

	mu           sync.Mutex
	cursors      map[string]cursor      // task ID → last accepted (seq, ts)
	finalChecked map[string]struct{}    // task IDs with a final check scheduled or done
	finalTimers  map[string]*time.Timer // pending final-check timers
	closed       bool

	received     int64
	dispatched   int64
	droppedStale int64
	parseErrors  int64
	unknownTypes int64
	finalChecks  int64
}

// New creates a Router. fetcher may be nil, disabling final-state checks.
func New(cfg Config, fetcher TaskFetcher, handlers Handlers, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FinalCheckDelay == 0 {
		cfg.FinalCheckDelay = DefaultConfig().FinalCheckDelay
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}

	return &Router{
		cfg:          cfg,
		fetcher:      fetcher,
		handlers:     handlers,
		logger:       logger,
		cursors:      make(map[string]cursor),
		finalChecked: make(map[string]struct{}),
		finalTimers:  make(map[string]*time.Timer),
	}
}

// InterceptPong registers the heartbeat callback for pong frames.
func (r *Router) InterceptPong(fn func(protocol.Pong)) {
	r.pongFn = fn
}

// Handle classifies and dispatches a single raw frame.
func (r *Router) Handle(data []byte, receivedAt time.Time) {
	r.mu.Lock()
	r.received++
	r.mu.Unlock()

	msg, err := protocol.Decode(data)
	if err != nil {
		r.mu.Lock()
		if errors.Is(err, protocol.ErrUnknownType) {
			r.unknownTypes++
			r.mu.Unlock()
			r.logger.Debug("skipping unknown message type", "error", err)
		} else {
			r.parseErrors++
			r.mu.Unlock()
			r.logger.Warn("failed to parse message", "error", err)
		}
		return
	}

	switch m := msg.(type) {
	case protocol.Pong:
		// Heartbeat response, never forwarded to consumers
		if r.pongFn != nil {
			r.pongFn(m)
		}

	case protocol.TaskProgressUpdate:
		r.handleProgress(m, receivedAt)

	case protocol.TaskUpdate:
		r.markDispatched()
		if r.handlers.TaskUpdate != nil {
			r.handlers.TaskUpdate(m)
		}

	case protocol.ProjectUpdate:
		r.markDispatched()
		if r.handlers.ProjectUpdate != nil {
			r.handlers.ProjectUpdate(m)
		}

	case protocol.SystemNotification:
		r.markDispatched()
		if r.handlers.SystemNotification != nil {
			r.handlers.SystemNotification(m)
		}

	case protocol.ErrorNotification:
		r.markDispatched()
		if r.handlers.ErrorNotification != nil {
			r.handlers.ErrorNotification(m)
		}
	}
}

// handleProgress applies the staleness filter and dispatches accepted events.
func (r *Router) handleProgress(m protocol.TaskProgressUpdate, receivedAt time.Time) {
	r.mu.Lock()

	last, seen := r.cursors[m.TaskID]
	if seen && !last.advances(m.Seq, m.TS) {
		r.droppedStale++
		r.mu.Unlock()
		r.logger.Debug("dropping stale progress event",
			"task_id", m.TaskID,
			"seq", m.Seq,
			"ts", m.TS,
			"last_seq", last.seq,
			"last_ts", last.ts,
		)
		return
	}

	r.cursors[m.TaskID] = cursor{seq: m.Seq, ts: m.TS}
	r.dispatched++
	r.mu.Unlock()

	progress := model.TaskProgress{
		TaskID:     m.TaskID,
		ProjectID:  m.ProjectID,
		Status:     model.TaskStatus(m.Status),
		Progress:   m.Progress,
		StepName:   m.StepName,
		Seq:        m.Seq,
		TS:         m.TS,
		Message:    m.Message,
		Meta:       m.Meta,
		ReceivedAt: receivedAt,
	}

	if r.handlers.Progress != nil {
		r.handlers.Progress(progress)
	}

	if progress.Status.Terminal() {
		r.scheduleFinalCheck(m.TaskID)
	}
}

// scheduleFinalCheck arms the delayed authoritative fetch for a task.
// At most one check runs per task until ResetTask is called for it.
func (r *Router) scheduleFinalCheck(taskID string) {
	if r.fetcher == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if _, done := r.finalChecked[taskID]; done {
		return
	}
	r.finalChecked[taskID] = struct{}{}

	r.finalTimers[taskID] = time.AfterFunc(r.cfg.FinalCheckDelay, func() {
		r.runFinalCheck(taskID)
	})
}

// runFinalCheck fetches authoritative state and forwards it.
func (r *Router) runFinalCheck(taskID string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	delete(r.finalTimers, taskID)
	r.finalChecks++
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.FetchTimeout)
	defer cancel()

	snap, err := r.fetcher.GetTaskProgress(ctx, taskID)
	if err != nil {
		r.logger.Warn("final-state check failed",
			"task_id", taskID,
			"error", err,
		)
		return
	}

	r.logger.Debug("final-state check complete",
		"task_id", taskID,
		"status", snap.Status,
	)

	r.Authoritative(taskID, snap)
}

// Authoritative forwards REST-fetched task state to the final-state handler.
// Also used by the session's cold-load refresh.
func (r *Router) Authoritative(taskID string, snap model.TaskSnapshot) {
	if r.handlers.FinalState != nil {
		r.handlers.FinalState(taskID, snap)
	}
}

// AuthoritativeProject forwards REST-fetched project state to the
// project-state handler. Fed by the session's cold-load refresh.
func (r *Router) AuthoritativeProject(projectID string, snap model.ProjectSnapshot) {
	if r.handlers.ProjectState != nil {
		r.handlers.ProjectState(projectID, snap)
	}
}

// ResetTask clears ordering and final-check state for a task. Called when a
// new subscription to the task begins so a re-run is tracked from scratch.
func (r *Router) ResetTask(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cursors, taskID)
	delete(r.finalChecked, taskID)
	if timer, ok := r.finalTimers[taskID]; ok {
		timer.Stop()
		delete(r.finalTimers, taskID)
	}
}

// Close stops all pending final-check timers.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for taskID, timer := range r.finalTimers {
		timer.Stop()
		delete(r.finalTimers, taskID)
	}
}

// Stats returns current statistics.
func (r *Router) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Stats{
		Received:     r.received,
		Dispatched:   r.dispatched,
		DroppedStale: r.droppedStale,
		ParseErrors:  r.parseErrors,
		UnknownTypes: r.unknownTypes,
		FinalChecks:  r.finalChecks,
	}
}

func (r *Router) markDispatched() {
	r.mu.Lock()
	r.dispatched++
	r.mu.Unlock()
}
