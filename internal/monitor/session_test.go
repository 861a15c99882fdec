package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"SwingSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.json")
	s, err := NewSession(path)
	require.NoError(t, err)
	clock := time.Date(2024, 6, 3, 16, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, path
}

func entry(price float64) model.SignalRow {
	return model.SignalRow{Close: price, Ready: true, EntrySignal: true, Strength: 6}
}

func TestSession_LatchesFirstEntry(t *testing.T) {
	s, _ := newTestSession(t)

	assert.False(t, s.Observe(model.SignalRow{Close: 99, Ready: true, Strength: 4}))
	assert.True(t, s.Observe(entry(100)))
	assert.False(t, s.Observe(entry(101)), "latched session stays silent")

	st := s.State()
	assert.True(t, st.Latched)
	assert.Equal(t, 100.0, st.LastSignalPrice)
	assert.Equal(t, 6, st.LastStrength)
}

func TestSession_IgnoresNotReadyRows(t *testing.T) {
	s, _ := newTestSession(t)

	sig := entry(100)
	sig.Ready = false

	assert.False(t, s.Observe(sig))
	assert.False(t, s.State().Latched)
}

func TestSession_ResetRearms(t *testing.T) {
	s, _ := newTestSession(t)
	require.True(t, s.Observe(entry(100)))
	s.AlertSent()

	require.NoError(t, s.Reset())

	st := s.State()
	assert.False(t, st.Latched)
	assert.Equal(t, 0, st.AlertsSent)
	assert.True(t, s.Observe(entry(102)))
}

func TestSession_ExitAlertOncePerLatch(t *testing.T) {
	s, _ := newTestSession(t)
	exit := model.SignalRow{Close: 95, Ready: true, ExitSignal: true}

	assert.False(t, s.ObserveExit(exit), "no exit alert before an entry")
	require.True(t, s.Observe(entry(100)))
	assert.True(t, s.ObserveExit(exit))
	assert.False(t, s.ObserveExit(exit))
}

func TestSession_PersistsAcrossRestart(t *testing.T) {
	s, path := newTestSession(t)
	require.True(t, s.Observe(entry(100)))
	s.AlertSent()

	_, err := os.Stat(path)
	require.NoError(t, err)

	reopened, err := NewSession(path)
	require.NoError(t, err)
	st := reopened.State()
	assert.True(t, st.Latched)
	assert.Equal(t, 1, st.AlertsSent)
	assert.False(t, reopened.Observe(entry(103)), "latch survives a restart")
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadState(path)
	assert.Error(t, err)

	_, err = NewSession(path)
	assert.Error(t, err)
}
