package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_evaluations (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			bar_date            TEXT NOT NULL,
			symbol              TEXT NOT NULL,
			close               REAL,
			vix                 REAL,
			ema5                REAL,
			ema10               REAL,
			ema21               REAL,
			ema50               REAL,
			atr                 REAL,
			volume_avg          REAL,
			ema_alignment       INTEGER,
			price_above_50ema   INTEGER,
			price_touch_entry   INTEGER,
			volume_above_avg    INTEGER,
			vix_below_threshold INTEGER,
			momentum_positive   INTEGER,
			entry_level         REAL,
			strength            INTEGER,
			entry_signal        INTEGER,
			exit_signal         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_ts ON signal_evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			from_date     TEXT,
			to_date       TEXT,
			bars          INTEGER,
			vix           REAL,
			trade_count   INTEGER,
			wins          INTEGER,
			losses        INTEGER,
			win_rate      REAL,
			avg_pnl_pct   REAL,
			total_pnl_abs REAL,
			avg_hold_days REAL,
			sharpe_ratio  REAL,
			config_json   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ts ON backtest_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES backtest_runs(id),
			entry_date  TEXT NOT NULL,
			entry_price REAL,
			stop_loss   REAL,
			target1     REAL,
			target2     REAL,
			shares      INTEGER,
			exit_date   TEXT NOT NULL,
			exit_price  REAL,
			hold_days   INTEGER,
			pnl_abs     REAL,
			pnl_pct     REAL,
			total_pnl   REAL,
			exit_reason TEXT,
			outcome     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON backtest_trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			price     REAL,
			strength  INTEGER,
			message   TEXT,
			delivered INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

func (r *SQLiteRecorder) RecordSignal(evt *SignalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind, sig := evt.Indicators, evt.Signal
	_, err := r.db.Exec(`INSERT INTO signal_evaluations
		(timestamp, bar_date, symbol, close, vix, ema5, ema10, ema21, ema50, atr, volume_avg,
		 ema_alignment, price_above_50ema, price_touch_entry, volume_above_avg,
		 vix_below_threshold, momentum_positive,
		 entry_level, strength, entry_signal, exit_signal)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), sig.Time.Format(dateLayout), evt.Symbol, sig.Close, evt.VIX,
		ind.EMA5, ind.EMA10, ind.EMA21, ind.EMA50, ind.ATR, ind.VolumeAvg,
		sig.EMAAlignment, sig.PriceAbove50EMA, sig.PriceTouchEntry, sig.VolumeAboveAvg,
		sig.VIXBelowThreshold, sig.MomentumPositive,
		sig.EntryLevel, sig.Strength, sig.EntrySignal, sig.ExitSignal,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(run *BacktestRun) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	id := uuid.NewString()
	tx, err := r.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	s := run.Summary
	if _, err := tx.Exec(`INSERT INTO backtest_runs
		(id, timestamp, symbol, from_date, to_date, bars, vix,
		 trade_count, wins, losses, win_rate, avg_pnl_pct, total_pnl_abs, avg_hold_days, sharpe_ratio,
		 config_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, time.Now().Unix(), run.Symbol, run.From.Format(dateLayout), run.To.Format(dateLayout), run.Bars, run.VIX,
		s.TradeCount, s.Wins, s.Losses, s.WinRate, s.AvgPnLPct, s.TotalPnLAbs, s.AvgHoldDays, s.SharpeRatio,
		string(cfgJSON),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO backtest_trades
		(run_id, entry_date, entry_price, stop_loss, target1, target2, shares,
		 exit_date, exit_price, hold_days, pnl_abs, pnl_pct, total_pnl, exit_reason, outcome)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, t := range run.Trades {
		if _, err := stmt.Exec(id, t.EntryDate.Format(dateLayout), t.EntryPrice, t.StopLoss, t.Target1, t.Target2, t.Shares,
			t.ExitDate.Format(dateLayout), t.ExitPrice, t.HoldDays, t.PnLAbs, t.PnLPct, t.TotalPnL,
			string(t.ExitReason), string(t.Outcome)); err != nil {
			return "", fmt.Errorf("insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts
		(timestamp, symbol, price, strength, message, delivered, error)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Price, evt.Strength, evt.Message, evt.Delivered, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
