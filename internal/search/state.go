package search

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQuiet is how long input has to stay unchanged before it is applied.
const DefaultQuiet = 300 * time.Millisecond

// State is the process-wide search term. Raw input is debounced: every
// Input call cancels the pending apply and restarts the quiet period, and
// only the last value is applied once typing pauses.
type State struct {
	quiet   time.Duration
	onApply func(term string)
	logger  *zap.Logger

	mu    sync.Mutex
	term  string
	seq   uint64
	timer *time.Timer
}

// NewState returns a State that calls onApply (from the timer goroutine)
// each time a new term takes effect. onApply may be nil.
func NewState(quiet time.Duration, onApply func(term string), logger *zap.Logger) *State {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{quiet: quiet, onApply: onApply, logger: logger.Named("search")}
}

// Term returns the applied term.
func (s *State) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Input records a raw keystroke-level value.
func (s *State) Input(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(s.quiet, func() { s.settle(seq, raw) })
}

// SetTerm applies raw immediately, dropping any pending input. onApply is
// not called; the caller reloads.
func (s *State) SetTerm(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.term = Normalize(raw)
}

// Stop drops pending input without applying it.
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *State) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}

func (s *State) settle(seq uint64, raw string) {
	s.mu.Lock()
	// A timer that fired while a newer Input was stopping it lost the race.
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.term = Normalize(raw)
	term := s.term
	s.mu.Unlock()

	s.logger.Debug("search term applied", zap.String("term", term))
	if s.onApply != nil {
		s.onApply(term)
	}
}
