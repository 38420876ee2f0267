package session

import (
	"context"
	"sort"
	"time"

	"github.com/clipforge/realtime/internal/model"
	"github.com/clipforge/realtime/internal/protocol"
)

// Subscribe adds a channel to the desired set and, when connected, tells
// the server immediately. The desired set survives disconnects; it is
// replayed as a full sync on every reconnect.
func (s *Session) Subscribe(topic string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, ok := s.desired[topic]; ok {
		s.mu.Unlock()
		return nil
	}
	s.desired[topic] = struct{}{}
	if id, ok := model.TaskIDFromChannel(topic); ok {
		// A resubscribed task starts fresh: no stale cursor, and the
		// final-state check may run again
		s.router.ResetTask(id)
	}
	connected := s.client != nil
	s.mu.Unlock()

	if !connected {
		return nil
	}
	return s.Send(protocol.NewSubscribe(topic))
}

// Unsubscribe removes a channel from the desired set. Unknown channels are
// a no-op.
func (s *Session) Unsubscribe(topic string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, ok := s.desired[topic]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.desired, topic)
	connected := s.client != nil
	s.mu.Unlock()

	if !connected {
		return nil
	}
	return s.Send(protocol.NewUnsubscribe(topic))
}

// SubscribeTask subscribes to a single task's update channel.
func (s *Session) SubscribeTask(taskID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	ch := model.TaskChannel(taskID)
	if _, ok := s.desired[ch]; ok {
		s.mu.Unlock()
		return nil
	}
	s.desired[ch] = struct{}{}
	s.router.ResetTask(taskID)
	connected := s.client != nil
	s.mu.Unlock()

	if !connected {
		return nil
	}
	return s.Send(protocol.NewSubscribeTask(taskID))
}

// UnsubscribeTask unsubscribes from a single task's update channel.
func (s *Session) UnsubscribeTask(taskID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	ch := model.TaskChannel(taskID)
	if _, ok := s.desired[ch]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.desired, ch)
	connected := s.client != nil
	s.mu.Unlock()

	if !connected {
		return nil
	}
	return s.Send(protocol.NewUnsubscribeTask(taskID))
}

// SubscribeMany adds a batch of channels in one command.
func (s *Session) SubscribeMany(channels []string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	var added []string
	for _, ch := range channels {
		if _, ok := s.desired[ch]; ok {
			continue
		}
		s.desired[ch] = struct{}{}
		if id, ok := model.TaskIDFromChannel(ch); ok {
			s.router.ResetTask(id)
		}
		added = append(added, ch)
	}
	connected := s.client != nil
	s.mu.Unlock()

	if len(added) == 0 || !connected {
		return nil
	}
	return s.Send(protocol.NewSubscribeMany(added))
}

// UnsubscribeMany removes a batch of channels in one command.
func (s *Session) UnsubscribeMany(channels []string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	var removed []string
	for _, ch := range channels {
		if _, ok := s.desired[ch]; !ok {
			continue
		}
		delete(s.desired, ch)
		removed = append(removed, ch)
	}
	connected := s.client != nil
	s.mu.Unlock()

	if len(removed) == 0 || !connected {
		return nil
	}
	return s.Send(protocol.NewUnsubscribeMany(removed))
}

// SyncSubscriptions replaces the desired set wholesale and schedules a
// debounced full-set sync. Idempotent on the server: the frame always
// carries the complete set, so rapid successive calls coalesce safely.
// An empty slice clears every subscription.
func (s *Session) SyncSubscriptions(channels []string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	next := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		next[ch] = struct{}{}
		if _, had := s.desired[ch]; !had {
			if id, ok := model.TaskIDFromChannel(ch); ok {
				s.router.ResetTask(id)
			}
		}
	}
	s.desired = next

	if s.client == nil {
		revive := s.identity != "" && s.reconnectTimer == nil &&
			(s.status == model.StatusDisconnected || s.status == model.StatusError)
		if revive && len(next) > 0 {
			// Someone wants data again after a teardown or exhausted
			// backoff; bring the connection back
			s.attempts = 0
			s.setStatusLocked(model.StatusConnecting)
			s.mu.Unlock()
			go s.reviveConnection()
			return nil
		}
		s.mu.Unlock()
		return nil
	}

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceGen++
	gen := s.debounceGen
	s.debounceTimer = time.AfterFunc(s.cfg.SyncDebounce, func() { s.flushSync(gen) })
	s.mu.Unlock()

	return nil
}

// flushSync is the debounce timer body: send the full desired set. A fired
// timer may lose the lock race against a newer SyncSubscriptions call; the
// generation check makes such a flush a no-op instead of clearing the live
// timer's handle and double-sending.
func (s *Session) flushSync(gen int) {
	s.mu.Lock()
	if s.closed || s.client == nil || gen != s.debounceGen {
		s.mu.Unlock()
		return
	}
	s.debounceTimer = nil
	desired := s.desiredLocked()
	s.mu.Unlock()

	if err := s.Send(protocol.NewSyncSubscriptions(desired)); err != nil {
		// The reconnect path re-sends the full set, so a failed flush
		// self-heals
		s.logger.Warn("subscription sync failed", "error", err)
	}
}

// reviveConnection re-dials after a sync request arrived while disconnected.
func (s *Session) reviveConnection() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HandshakeTimeout)
	err := s.dial(ctx)
	cancel()

	if err != nil {
		s.logger.Warn("revive dial failed", "error", err)
		s.mu.Lock()
		if !s.closed && s.status == model.StatusConnecting {
			s.scheduleRetryLocked()
		}
		s.mu.Unlock()
	}
}

// RequestStatus asks the server for a one-shot status report.
func (s *Session) RequestStatus() error {
	return s.Send(protocol.NewGetStatus())
}

// Subscribed reports whether a channel is in the desired set.
func (s *Session) Subscribed(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.desired[topic]
	return ok
}

// Subscriptions returns the desired channel set, sorted.
func (s *Session) Subscriptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desiredLocked()
}

// desiredLocked returns the desired set as a sorted slice. Caller holds mu.
func (s *Session) desiredLocked() []string {
	out := make([]string, 0, len(s.desired))
	for ch := range s.desired {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// taskIDs extracts the task IDs from a channel list.
func taskIDs(channels []string) []string {
	var ids []string
	for _, ch := range channels {
		if id, ok := model.TaskIDFromChannel(ch); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// projectIDs extracts the project IDs from a channel list.
func projectIDs(channels []string) []string {
	var ids []string
	for _, ch := range channels {
		if id, ok := model.ProjectIDFromChannel(ch); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
