package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/calculator"
	"SwingSentinel/internal/strategy"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Strategy   Strategy   `yaml:"strategy"`
	DataSource DataSource `yaml:"data_source"`
	Telegram   Telegram   `yaml:"telegram"`
	Schedule   Schedule   `yaml:"schedule"`
	Database   Database   `yaml:"database"`
	Monitor    Monitor    `yaml:"monitor"`
	HTTP       HTTP       `yaml:"http"`
	Log        Log        `yaml:"log"`
	Proxy      string     `yaml:"proxy"`
}

// Strategy holds indicator, entry and trade management parameters.
type Strategy struct {
	EMASpans     []int `yaml:"ema_spans" default:"[5,10,21,50]" validate:"len=4,dive,gt=0"`
	ATRPeriod    int   `yaml:"atr_period" default:"14" validate:"gt=0"`
	VolumePeriod int   `yaml:"volume_period" default:"20" validate:"gt=0"`

	ATREntryMultiplier float64 `yaml:"atr_entry_multiplier" default:"1.5" validate:"gte=0"`
	VIXThreshold       float64 `yaml:"vix_threshold" default:"30" validate:"gt=0"`
	MinHistory         int     `yaml:"min_history" default:"50" validate:"gte=2"`

	ATRTarget1Multiplier float64 `yaml:"atr_target1_multiplier" default:"2" validate:"gte=0"`
	ATRTarget2Multiplier float64 `yaml:"atr_target2_multiplier" default:"3" validate:"gtefield=ATRTarget1Multiplier"`
	ATRStopMultiplier    float64 `yaml:"atr_stop_multiplier" default:"2" validate:"gte=0"`
	StopLossPercent      float64 `yaml:"stop_loss_percent" default:"2" validate:"gte=0,lt=100"`
	RiskPercent          float64 `yaml:"risk_percent" default:"1" validate:"gt=0,lte=100"`
	AccountValue         float64 `yaml:"account_value" default:"100000" validate:"gt=0"`
	MaxHoldDays          int     `yaml:"max_hold_days" default:"10" validate:"gt=0"`
	DefaultShares        int     `yaml:"default_shares" validate:"gte=0"`
	SuppressOverlap      bool    `yaml:"suppress_overlap"`
}

// DataSource selects the traded and volatility symbols.
type DataSource struct {
	Symbol           string  `yaml:"symbol" default:"QQQ" validate:"required"`
	VolatilitySymbol string  `yaml:"volatility_symbol" default:"^VIX" validate:"required"`
	HistoryDays      int     `yaml:"history_days" default:"504" validate:"gte=2"`
	FallbackVIX      float64 `yaml:"fallback_vix" default:"20" validate:"gt=0"`
	Mock             bool    `yaml:"mock"`
}

// Telegram holds bot credentials. They are required only when enabled.
type Telegram struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token" validate:"required_if=Enabled true"`
	ChatID   string `yaml:"chat_id" validate:"required_if=Enabled true"`
}

// Schedule holds seconds-enabled cron specs.
type Schedule struct {
	DailyCron string `yaml:"daily_cron" default:"0 15 16 * * 1-5" validate:"required"`
	ResetCron string `yaml:"reset_cron" default:"0 0 9 * * 1-5" validate:"required"`
	Timezone  string `yaml:"timezone" default:"America/New_York" validate:"required"`
}

type Database struct {
	SQLitePath string `yaml:"sqlite_path" default:"data/swing_sentinel.db"`
}

type Monitor struct {
	StateFile string `yaml:"state_file" default:"data/session_state.json" validate:"required"`
}

type HTTP struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Addr    string `yaml:"addr" default:":8080" validate:"required_if=Enabled true"`
}

type Log struct {
	Level       string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" default:"console" validate:"oneof=console json"`
	DebugTopics string `yaml:"debug_topics"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file leaves every field at its default.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SWING_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("DEBUG_TOPICS"); v != "" {
		cfg.Log.DebugTopics = v
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field against its constraints and reports the
// first violation by its YAML path.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	// Namespace is "Config.strategy.atr_period"; drop the root.
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must have %s entries", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// BacktestConfig maps the strategy section onto the pipeline parameters.
func (s Strategy) BacktestConfig() backtest.Config {
	ind := calculator.Params{ATRPeriod: s.ATRPeriod, VolumePeriod: s.VolumePeriod}
	copy(ind.EMASpans[:], s.EMASpans)

	sig := strategy.DefaultParams()
	sig.ATREntryMultiplier = s.ATREntryMultiplier
	sig.VIXThreshold = s.VIXThreshold
	sig.MinHistory = s.MinHistory

	return backtest.Config{
		Indicators: ind,
		Signals:    sig,
		Match: backtest.Params{
			AccountValue:         s.AccountValue,
			RiskPercent:          s.RiskPercent,
			ATRStopMultiplier:    s.ATRStopMultiplier,
			StopLossPercent:      s.StopLossPercent,
			ATRTarget1Multiplier: s.ATRTarget1Multiplier,
			ATRTarget2Multiplier: s.ATRTarget2Multiplier,
			MaxHoldDays:          s.MaxHoldDays,
			DefaultShares:        s.DefaultShares,
			SuppressOverlap:      s.SuppressOverlap,
		},
	}
}
