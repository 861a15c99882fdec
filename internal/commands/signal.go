package commands

import (
	"fmt"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/notifier"

	"github.com/spf13/cobra"
)

func newSignalCmd(a *app) *cobra.Command {
	var symbol string
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Evaluate the most recent bar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if symbol == "" {
				symbol = cfg.DataSource.Symbol
			}
			col := collector.NewCollector(newFetcher(cfg), symbol, cfg.DataSource.VolatilitySymbol,
				cfg.DataSource.HistoryDays, cfg.DataSource.FallbackVIX)
			series, err := col.Collect(cmd.Context())
			if err != nil {
				return err
			}

			bcfg := cfg.Strategy.BacktestConfig()
			res, err := backtest.Run(series.Bars, series.VIX, bcfg)
			if err != nil {
				return err
			}
			if res.Latest == nil {
				return fmt.Errorf("evaluate %s: %w", symbol, res.LatestErr)
			}
			row := res.Indicators[len(res.Indicators)-1]
			lv := backtest.ComputeLevels(res.Latest.Close, row.EMA5, row.ATR, bcfg.Match)
			fmt.Fprint(cmd.OutOrStdout(), plainText(notifier.FormatSignalReport(symbol, series.VIX, res.Latest, lv)))
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol to evaluate (default from config)")
	return cmd
}
