package caption

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoSelection = errors.New("no image selected")
	ErrBusy        = errors.New("a prediction is already running")
)

// Outcome is what a Session hands back to the view. Stale is set when the
// selection changed while the request was in flight; the view should drop it.
type Outcome struct {
	Result     PredictionResult
	Generation uint64
	Stale      bool
}

// Session owns the current selection for one view. Only one prediction may be
// outstanding at a time.
type Session struct {
	p Predictor

	mu   sync.Mutex
	sel  Selection
	gen  uint64
	busy bool
}

func NewSession(p Predictor) *Session {
	return &Session{p: p}
}

// Select replaces the current selection.
func (s *Session) Select(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
	s.gen++
}

func (s *Session) Clear() {
	s.Select(Selection{})
}

func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Predict dispatches the current selection. The busy flag is always released
// before it returns, so the caller can trigger again after any failure.
func (s *Session) Predict(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.sel.IsEmpty() {
		s.mu.Unlock()
		return Outcome{}, ErrNoSelection
	}
	if s.busy {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	s.busy = true
	sel, gen := s.sel, s.gen
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	res, err := s.p.Predict(ctx, sel)

	s.mu.Lock()
	stale := s.gen != gen
	s.mu.Unlock()
	if err != nil {
		return Outcome{Generation: gen, Stale: stale}, err
	}
	return Outcome{Result: res, Generation: gen, Stale: stale}, nil
}
