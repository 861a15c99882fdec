package model

import "time"

// SessionState tracks the live-monitoring alert latch. The latch is set by
// the first entry signal of a session and held until the session resets.
type SessionState struct {
	Latched         bool      `json:"latched"`
	LastSignalPrice float64   `json:"last_signal_price"`
	LastSignalAt    time.Time `json:"last_signal_at"`
	LastStrength    int       `json:"last_strength"`
	ExitAlerted     bool      `json:"exit_alerted"`
	LastEvaluatedAt time.Time `json:"last_evaluated_at"`
	AlertsSent      int       `json:"alerts_sent"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
