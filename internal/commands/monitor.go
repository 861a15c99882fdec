package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SwingSentinel/internal/api"
	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/metrics"
	"SwingSentinel/internal/monitor"
	"SwingSentinel/internal/notifier"
	"SwingSentinel/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMonitorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run scheduled evaluation with alerts",
		Long: `Evaluates the configured symbol on the daily cron, sends the first entry
signal of each session to Telegram and serves the HTTP API.

Set RUN_ON_START=true to evaluate once immediately.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMonitor()
		},
	}
}

func (a *app) runMonitor() error {
	cfg := a.cfg
	log.Info().Str("symbol", cfg.DataSource.Symbol).Msg("SwingSentinel starting")

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.VolatilitySymbol,
		cfg.DataSource.HistoryDays, cfg.DataSource.FallbackVIX)

	sess, err := monitor.NewSession(cfg.Monitor.StateFile)
	if err != nil {
		return fmt.Errorf("init monitor session: %w", err)
	}

	var sender notifier.Sender = notifier.LogSender{}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	rec := newRecorder(cfg)
	defer rec.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met := metrics.New(reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, sess, sender, rec, met, cfg.Strategy.BacktestConfig(), loc)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.ResetCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.HTTP.Enabled {
		srv := api.NewServer(cfg.HTTP.Addr, sched, reg, cfg.Strategy.BacktestConfig())
		srv.Start()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("stop http server")
			}
		}()
	}

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing daily evaluation now")
		go sched.RunDailyNow()
	}

	log.Info().Msg("SwingSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	return nil
}
