package monitor

import (
	"sync"
	"time"

	"SwingSentinel/internal/model"

	"github.com/rs/zerolog/log"
)

// Session holds the live-monitoring alert latch with concurrency safety.
// The first entry signal of a session latches it; later entry signals are
// silent until Reset.
type Session struct {
	mu       sync.Mutex
	state    *model.SessionState
	filePath string
	now      func() time.Time
}

// NewSession creates a Session, loading or initializing state from disk.
func NewSession(filePath string) (*Session, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	s := &Session{state: state, filePath: filePath, now: time.Now}
	if state.StartedAt.IsZero() {
		state.StartedAt = s.now()
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// State returns a copy of the current session state.
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// Observe records an evaluation and reports whether it should raise the
// entry alert: true only for the first ready entry signal of the session.
func (s *Session) Observe(sig model.SignalRow) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastEvaluatedAt = s.now()
	fire := sig.Ready && sig.EntrySignal && !s.state.Latched
	if fire {
		s.state.Latched = true
		s.state.LastSignalPrice = sig.Close
		s.state.LastSignalAt = s.state.LastEvaluatedAt
		s.state.LastStrength = sig.Strength
		s.state.ExitAlerted = false
		log.Info().Float64("price", sig.Close).Int("strength", sig.Strength).Msg("entry signal latched")
	}
	s.persist()
	return fire
}

// ObserveExit reports whether an exit signal should be alerted: once per
// latched session.
func (s *Session) ObserveExit(sig model.SignalRow) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Latched || s.state.ExitAlerted || !sig.ExitSignal {
		return false
	}
	s.state.ExitAlerted = true
	s.persist()
	return true
}

// AlertSent counts a delivered alert.
func (s *Session) AlertSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AlertsSent++
	s.persist()
}

// Reset clears the latch and starts a new session.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := *s.state
	s.state = &model.SessionState{StartedAt: s.now()}
	log.Info().Bool("was_latched", prev.Latched).Int("alerts", prev.AlertsSent).Msg("monitor session reset")
	return s.save()
}

func (s *Session) persist() {
	if err := s.save(); err != nil {
		log.Error().Err(err).Str("file", s.filePath).Msg("save session state")
	}
}

// save must be called with mu held.
func (s *Session) save() error {
	s.state.UpdatedAt = s.now()
	return SaveState(s.filePath, s.state)
}
