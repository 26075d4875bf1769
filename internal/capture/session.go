package capture

import (
	"context"
	"errors"
	"sync"
)

// Session is one explicit generation lifecycle: create, start, optionally
// cancel, and observe completion. Teardown is deterministic; cancelling
// takes effect at the recording loop's next suspension point.
type Session struct {
	orch *Orchestrator

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	err     error
}

// NewSession creates an unstarted session bound to the orchestrator.
func NewSession(o *Orchestrator) *Session {
	return &Session{orch: o, done: make(chan struct{})}
}

// Start launches the generation run in the background. It returns ErrBusy
// without starting when another run already holds the surface, and an error
// when the session was already started.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("session already started")
	}
	if s.orch.IsRecording() {
		return ErrBusy
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go func() {
		defer close(s.done)
		defer cancel()
		err := s.orch.Generate(runCtx)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}()
	return nil
}

// Cancel aborts a running session; the run settles with a cancelled status
// and no artifact. Safe to call on an unstarted or finished session.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Active reports whether the session has started and not yet settled.
func (s *Session) Active() bool {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the run settles and returns its terminal error, if any.
func (s *Session) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
