package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the process-wide logger.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // console or json
	DebugTopics string // comma separated topics, or "all"
}

// Setup configures the global zerolog logger and the enabled debug topics.
func Setup(cfg Config) error {
	return setup(cfg, os.Stderr)
}

func setup(cfg Config, out io.Writer) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}

	EnableTopics(cfg.DebugTopics)
	// Topic loggers emit at debug level, so enabling any topic lowers the floor.
	if len(enabledTopics) > 0 && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

var enabledTopics = make(map[string]bool)

// EnableTopics replaces the set of enabled debug topics,
// e.g. "atr,ema,matcher" or "all".
func EnableTopics(topics string) {
	enabledTopics = make(map[string]bool)
	topics = strings.TrimSpace(topics)
	if topics == "" {
		return
	}
	if topics == "all" {
		enabledTopics["*"] = true
		return
	}
	for _, topic := range strings.Split(topics, ",") {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			enabledTopics[topic] = true
		}
	}
}

func init() {
	EnableTopics(os.Getenv("DEBUG_TOPICS"))
}

// Topic is a debug logger scoped to one subsystem. When its topic is not
// enabled every call returns after a single bool check.
type Topic struct {
	topic string
}

// New creates a topic logger. Usage: var atrLog = logger.New("atr")
func New(topic string) *Topic {
	return &Topic{topic: topic}
}

// Enabled reports whether the topic is currently switched on.
func (t *Topic) Enabled() bool {
	return enabledTopics["*"] || enabledTopics[t.topic]
}

// Debug emits a debug event with key/value pairs.
func (t *Topic) Debug(msg string, kv ...any) {
	if !t.Enabled() {
		return
	}
	log.Debug().Str("topic", t.topic).Fields(kv).Msg(msg)
}

// Info emits an info event with key/value pairs.
func (t *Topic) Info(msg string, kv ...any) {
	if !t.Enabled() {
		return
	}
	log.Info().Str("topic", t.topic).Fields(kv).Msg(msg)
}
