package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/notifier"
	"SwingSentinel/internal/recorder"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type backtestFlags struct {
	symbols   []string
	days      int
	vix       float64
	noOverlap bool
	workers   int
	asJSON    bool
	from      string
	to        string
}

const dateFlagLayout = "2006-01-02"

// window parses the --from and --to flags; an empty flag leaves that side open.
func (f *backtestFlags) window() (from, to time.Time, err error) {
	if f.from != "" {
		if from, err = time.Parse(dateFlagLayout, f.from); err != nil {
			return from, to, fmt.Errorf("invalid --from %q: want YYYY-MM-DD", f.from)
		}
	}
	if f.to != "" {
		if to, err = time.Parse(dateFlagLayout, f.to); err != nil {
			return from, to, fmt.Errorf("invalid --to %q: want YYYY-MM-DD", f.to)
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return from, to, fmt.Errorf("--from %s is after --to %s", f.from, f.to)
	}
	return from, to, nil
}

type backtestOutput struct {
	Symbol string           `json:"symbol"`
	RunID  string           `json:"run_id,omitempty"`
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	Error  string           `json:"error,omitempty"`
	Result *backtest.Result `json:"result,omitempty"`
}

func newBacktestCmd(a *app) *cobra.Command {
	f := &backtestFlags{}
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Simulate trades over history",
		Long: `Runs the indicator, signal and trade-matching pipeline over daily history
and prints the performance summary.

Examples:
  # Two years of QQQ with the current VIX
  swing backtest --symbol QQQ --days 504

  # Several symbols in parallel, one position at a time, fixed VIX
  swing backtest --symbol QQQ,SPY,IWM --no-overlap --vix 18 --json

  # Only trades entered and closed during 2024
  swing backtest --days 756 --from 2024-01-01 --to 2024-12-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBacktest(cmd, f)
		},
	}
	cmd.Flags().StringSliceVar(&f.symbols, "symbol", nil, "symbols to backtest (default from config)")
	cmd.Flags().IntVar(&f.days, "days", 0, "days of history (default from config)")
	cmd.Flags().Float64Var(&f.vix, "vix", 0, "fixed VIX value instead of fetching it")
	cmd.Flags().BoolVar(&f.noOverlap, "no-overlap", false, "skip entries while a trade is open")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "symbols processed concurrently")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&f.from, "from", "", "first entry date, YYYY-MM-DD (history before it still warms up indicators)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date of the window, YYYY-MM-DD")
	return cmd
}

func (a *app) runBacktest(cmd *cobra.Command, f *backtestFlags) error {
	cfg := a.cfg
	ctx := cmd.Context()
	from, to, err := f.window()
	if err != nil {
		return err
	}
	if len(f.symbols) == 0 {
		f.symbols = []string{cfg.DataSource.Symbol}
	}
	if f.days <= 0 {
		f.days = cfg.DataSource.HistoryDays
	}
	bcfg := cfg.Strategy.BacktestConfig()
	if f.noOverlap {
		bcfg.Match.SuppressOverlap = true
	}
	bcfg.Match.From, bcfg.Match.To = from, to

	fetcher := newFetcher(cfg)
	outputs := make([]backtestOutput, len(f.symbols))
	jobs := make([]backtest.Job, 0, len(f.symbols))
	index := make(map[string]int, len(f.symbols))
	for i, sym := range f.symbols {
		outputs[i].Symbol = sym
		col := collector.NewCollector(fetcher, sym, cfg.DataSource.VolatilitySymbol, f.days, cfg.DataSource.FallbackVIX)
		series, err := col.Collect(ctx)
		if err != nil {
			outputs[i].Error = err.Error()
			continue
		}
		outputs[i].From = series.Bars[0].Time
		outputs[i].To = series.Bars[len(series.Bars)-1].Time
		if !from.IsZero() {
			if outputs[i].From.After(from) {
				log.Warn().Str("symbol", sym).Time("first_bar", outputs[i].From).Str("from", f.from).
					Msg("history starts after --from; raise --days")
			}
			outputs[i].From = laterOf(outputs[i].From, from)
		}
		if !to.IsZero() && outputs[i].To.After(to) {
			outputs[i].To = to
		}
		vix := series.VIX
		if f.vix > 0 {
			vix = f.vix
		}
		id := uuid.NewString()
		index[id] = i
		jobs = append(jobs, backtest.Job{ID: id, Symbol: sym, Bars: series.Bars, VIX: vix, Config: bcfg})
	}

	results, err := backtest.RunBatch(ctx, jobs, f.workers)
	if err != nil {
		return err
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	for k, r := range results {
		out := &outputs[index[r.ID]]
		if r.Err != nil {
			out.Error = r.Err.Error()
			continue
		}
		out.Result = r.Result
		job := jobs[k]
		runID, err := rec.RecordBacktest(&recorder.BacktestRun{
			Symbol:  job.Symbol,
			From:    out.From,
			To:      out.To,
			Bars:    len(job.Bars),
			VIX:     job.VIX,
			Config:  bcfg,
			Summary: r.Result.Summary,
			Trades:  r.Result.Trades,
		})
		if err != nil {
			log.Error().Err(err).Str("symbol", job.Symbol).Msg("record backtest")
		}
		out.RunID = runID
	}

	w := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}
	failed := 0
	for _, out := range outputs {
		if out.Error != "" {
			failed++
			fmt.Fprintf(w, "%s: %s\n\n", out.Symbol, out.Error)
			continue
		}
		report := notifier.FormatBacktestReport(out.Symbol, out.From, out.To, out.Result.Summary, out.Result.Trades)
		fmt.Fprintln(w, plainText(report))
	}
	if failed == len(outputs) {
		return fmt.Errorf("all %d backtests failed", failed)
	}
	return nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
