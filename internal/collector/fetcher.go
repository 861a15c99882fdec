package collector

import (
	"context"

	"SwingSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns up to days daily bars in ascending order.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	// FetchLatestClose returns the most recent close, used for the VIX scalar.
	FetchLatestClose(ctx context.Context, symbol string) (float64, error)
	Name() string
}
