package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, historyDays int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`data_source:
  symbol: QQQ
  history_days: %d
  mock: true
database:
  sqlite_path: %s
monitor:
  state_file: %s
log:
  level: error
`, historyDays, filepath.Join(dir, "swing.db"), filepath.Join(dir, "state.json"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBacktestCmd_JSON(t *testing.T) {
	cfg := writeConfig(t, 120)

	out, err := run(t, "backtest", "--config", cfg, "--symbol", "AAA,BBB", "--vix", "15", "--json")
	require.NoError(t, err)

	var got []backtestOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	for _, o := range got {
		assert.Empty(t, o.Error, o.Symbol)
		require.NotNil(t, o.Result, o.Symbol)
		assert.NotEmpty(t, o.RunID, o.Symbol)
		assert.Len(t, o.Result.Signals, 120)
	}
	assert.Equal(t, "AAA", got[0].Symbol)
	assert.Equal(t, "BBB", got[1].Symbol)
}

func TestBacktestCmd_Report(t *testing.T) {
	cfg := writeConfig(t, 120)

	out, err := run(t, "backtest", "--config", cfg, "--no-overlap")
	require.NoError(t, err)

	assert.Contains(t, out, "QQQ backtest")
	assert.NotContains(t, out, "<b>")
}

func TestBacktestCmd_DateWindow(t *testing.T) {
	cfg := writeConfig(t, 120)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -40)
	to := today.AddDate(0, 0, -10)

	out, err := run(t, "backtest", "--config", cfg, "--vix", "15", "--json",
		"--from", from.Format("2006-01-02"), "--to", to.Format("2006-01-02"))
	require.NoError(t, err)

	var got []backtestOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Result)
	assert.True(t, got[0].From.Equal(from), got[0].From)
	assert.True(t, got[0].To.Equal(to), got[0].To)
	require.NotNil(t, got[0].Result.Latest)
	assert.False(t, got[0].Result.Latest.Time.After(to))
	for _, tr := range got[0].Result.Trades {
		assert.False(t, tr.EntryDate.Before(from), tr.EntryDate)
		assert.False(t, tr.ExitDate.After(to), tr.ExitDate)
	}
}

func TestBacktestCmd_InvalidWindow(t *testing.T) {
	cfg := writeConfig(t, 120)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad from", []string{"--from", "05/01/2024"}, "invalid --from"},
		{"bad to", []string{"--to", "2024-13-01"}, "invalid --to"},
		{"reversed", []string{"--from", "2024-05-01", "--to", "2024-04-01"}, "is after --to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"backtest", "--config", cfg}, tt.args...)...)

			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestBacktestCmd_AllFail(t *testing.T) {
	cfg := writeConfig(t, 2)

	_, err := run(t, "backtest", "--config", cfg, "--days", "1")

	assert.ErrorContains(t, err, "all 1 backtests failed")
}

func TestSignalCmd(t *testing.T) {
	cfg := writeConfig(t, 120)

	out, err := run(t, "signal", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "QQQ swing check")
	assert.Contains(t, out, "Strength:")
}

func TestSignalCmd_ShortHistory(t *testing.T) {
	cfg := writeConfig(t, 10)

	_, err := run(t, "signal", "--config", cfg)

	assert.ErrorContains(t, err, "insufficient data")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  atr_period: 0\n"), 0o644))

	_, err := run(t, "signal", "--config", path)

	assert.ErrorContains(t, err, "strategy.atr_period")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "QQQ backtest", plainText("<b>QQQ backtest</b>"))
}
