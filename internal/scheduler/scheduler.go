package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/metrics"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/monitor"
	"SwingSentinel/internal/notifier"
	"SwingSentinel/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sendRetries = 3

// Snapshot is the outcome of the most recent pipeline run.
type Snapshot struct {
	RunID  string           `json:"run_id"`
	Symbol string           `json:"symbol"`
	VIX    float64          `json:"vix"`
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	At     time.Time        `json:"at"`
	Result *backtest.Result `json:"result"`
	// Levels are computed for the latest bar whether or not it signals.
	Levels backtest.Levels `json:"levels"`
}

// Scheduler manages the cron tasks of live monitoring.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Session   *monitor.Session
	Notifier  notifier.Sender
	Recorder  recorder.Recorder
	Metrics   *metrics.Recorder
	Config    backtest.Config
	Ctx       context.Context

	mu   sync.Mutex
	last *Snapshot
}

// NewScheduler creates a new Scheduler whose cron specs are read in loc.
func NewScheduler(ctx context.Context, col *collector.Collector, sess *monitor.Session, sender notifier.Sender,
	rec recorder.Recorder, met *metrics.Recorder, cfg backtest.Config, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Collector: col,
		Session:   sess,
		Notifier:  sender,
		Recorder:  rec,
		Metrics:   met,
		Config:    cfg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily evaluation and the session reset.
func (s *Scheduler) RegisterAll(dailyCron, resetCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(resetCron, s.resetTask); err != nil {
		return fmt.Errorf("register reset task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// LastResult returns the snapshot of the latest successful run.
func (s *Scheduler) LastResult() (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.last != nil
}

// RunPipeline collects fresh data, runs the full backtest pipeline over it
// and records the run.
func (s *Scheduler) RunPipeline(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	defer s.Metrics.ObserveSince("pipeline", start)

	series, err := s.Collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	res, err := backtest.Run(series.Bars, series.VIX, s.Config)
	if err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}

	last := len(series.Bars) - 1
	row := res.Indicators[last]
	snap := &Snapshot{
		Symbol: series.Symbol,
		VIX:    series.VIX,
		From:   series.Bars[0].Time,
		To:     series.Bars[last].Time,
		At:     series.FetchedAt,
		Result: res,
		Levels: backtest.ComputeLevels(series.Bars[last].Close, row.EMA5, row.ATR, s.Config.Match),
	}

	s.Metrics.RecordTrades(snap.Symbol, res.Summary.ExitReasons)
	runID, err := s.Recorder.RecordBacktest(&recorder.BacktestRun{
		Symbol:  snap.Symbol,
		From:    snap.From,
		To:      snap.To,
		Bars:    len(series.Bars),
		VIX:     snap.VIX,
		Config:  s.Config,
		Summary: res.Summary,
		Trades:  res.Trades,
	})
	if err != nil {
		log.Error().Err(err).Msg("record backtest")
	}
	snap.RunID = runID

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	log.Info().Str("run", runID).Str("symbol", snap.Symbol).Int("trades", res.Summary.TradeCount).
		Float64("win_rate", res.Summary.WinRate).Msg("pipeline run complete")
	return snap, nil
}

func (s *Scheduler) dailyTask() {
	log.Info().Msg("running daily evaluation")
	snap, err := s.RunPipeline(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("daily evaluation")
		s.Metrics.RecordEvaluation(s.Collector.Symbol, metrics.ResultError, 0, 0)
		s.trySend(fmt.Sprintf("❌ Daily evaluation failed: %v", err))
		return
	}

	latest := snap.Result.Latest
	if latest == nil {
		log.Warn().Err(snap.Result.LatestErr).Str("symbol", snap.Symbol).Msg("latest bar not evaluable")
		s.Metrics.RecordEvaluation(snap.Symbol, metrics.ResultNotReady, 0, 0)
		return
	}

	result := metrics.ResultNoEntry
	if latest.EntrySignal {
		result = metrics.ResultEntry
	}
	s.Metrics.RecordEvaluation(snap.Symbol, result, latest.Close, latest.Strength)
	if err := s.Recorder.RecordSignal(&recorder.SignalEvent{
		Symbol:     snap.Symbol,
		VIX:        snap.VIX,
		Indicators: snap.Result.Indicators[len(snap.Result.Indicators)-1],
		Signal:     *latest,
	}); err != nil {
		log.Error().Err(err).Msg("record signal")
	}

	switch {
	case s.Session.Observe(*latest):
		s.alert("entry", snap.Symbol, latest, notifier.FormatEntryAlert(snap.Symbol, latest, snap.Levels))
	case s.Session.ObserveExit(*latest):
		s.alert("exit", snap.Symbol, latest, notifier.FormatExitAlert(snap.Symbol, latest, s.Session.State()))
	}
}

func (s *Scheduler) resetTask() {
	if err := s.Session.Reset(); err != nil {
		log.Error().Err(err).Msg("reset session")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name := ""
	if fields := strings.Fields(command); len(fields) > 0 {
		name = strings.ToLower(fields[0])
	}
	switch name {
	case "/signal":
		snap, err := s.RunPipeline(ctx)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if snap.Result.Latest == nil {
			return fmt.Sprintf("⏳ %s: %v", snap.Symbol, describe(snap.Result.LatestErr))
		}
		return notifier.FormatSignalReport(snap.Symbol, snap.VIX, snap.Result.Latest, snap.Levels)
	case "/backtest":
		snap, err := s.RunPipeline(ctx)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatBacktestReport(snap.Symbol, snap.From, snap.To, snap.Result.Summary, snap.Result.Trades)
	case "/status":
		return notifier.FormatSessionStatus(s.Session.State())
	case "/reset":
		if err := s.Session.Reset(); err != nil {
			return fmt.Sprintf("❌ reset failed: %v", err)
		}
		return "🔄 Monitor session reset, the next entry signal will alert."
	default:
		return "Available commands:\n• /signal latest bar evaluation\n• /backtest trade history and stats\n• /status alert latch\n• /reset re-arm the entry alert"
	}
}

func describe(err error) string {
	switch {
	case err == nil:
		return "no evaluation"
	case errors.Is(err, model.ErrInsufficientData):
		return "not enough history to evaluate the latest bar"
	default:
		return err.Error()
	}
}

func (s *Scheduler) alert(kind, symbol string, sig *model.SignalRow, text string) {
	err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries)
	evt := &recorder.AlertEvent{
		Symbol:    symbol,
		Price:     sig.Close,
		Strength:  sig.Strength,
		Message:   text,
		Delivered: err == nil,
	}
	if err != nil {
		evt.Error = err.Error()
		log.Error().Err(err).Str("kind", kind).Msg("send alert")
	} else {
		s.Session.AlertSent()
	}
	s.Metrics.RecordAlert(kind, err == nil)
	if err := s.Recorder.RecordAlert(evt); err != nil {
		log.Error().Err(err).Msg("record alert")
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
