package commands

import (
	"strings"

	"SwingSentinel/internal/collector"
	"SwingSentinel/internal/config"
	"SwingSentinel/internal/recorder"

	"github.com/rs/zerolog/log"
)

const (
	mockPrice = 400
	mockVIX   = 18
)

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.Mock {
		return &collector.MockFetcher{Price: mockPrice, LatestClose: mockVIX}
	}
	return collector.NewYahooFetcher(cfg.Proxy)
}

// newRecorder falls back to a no-op recorder when SQLite is not configured
// or cannot be opened.
func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

var htmlTags = strings.NewReplacer("<b>", "", "</b>", "")

// plainText strips the Telegram markup from a formatted report.
func plainText(s string) string {
	return htmlTags.Replace(s)
}
