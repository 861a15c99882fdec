package commands

import (
	"fmt"
	"os"

	"SwingSentinel/internal/config"
	"SwingSentinel/internal/logger"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "swing",
		Short: "Swing-trading signal monitor and backtester",
		Long: `Evaluates a six-criteria pullback entry on daily bars, alerts on the
first entry signal of each session and backtests the rule over history.

Commands:
  monitor    run the scheduled evaluation, Telegram bot and HTTP API
  signal     evaluate the most recent bar once
  backtest   simulate trades over one or more symbols`,
		Version:           "1.0.0",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	path := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", path, "path to the YAML config")

	root.AddCommand(newMonitorCmd(a), newSignalCmd(a), newBacktestCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := logger.Setup(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		DebugTopics: cfg.Log.DebugTopics,
	}); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
