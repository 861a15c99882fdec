package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SwingSentinel/internal/model"

	"github.com/rs/zerolog/log"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price       float64
	DailyData   []model.OHLCV
	LatestClose float64
	LatestErr   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchLatestClose(_ context.Context, _ string) (float64, error) {
	if m.LatestErr != nil {
		return 0, m.LatestErr
	}
	return m.LatestClose, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches the traded series and the volatility scalar.
type Collector struct {
	Fetcher          Fetcher
	Symbol           string
	VolatilitySymbol string
	HistoryDays      int
	FallbackVIX      float64
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, volatilitySymbol string, historyDays int, fallbackVIX float64) *Collector {
	return &Collector{
		Fetcher:          fetcher,
		Symbol:           symbol,
		VolatilitySymbol: volatilitySymbol,
		HistoryDays:      historyDays,
		FallbackVIX:      fallbackVIX,
	}
}

// Collect fetches daily bars and the current VIX. A failed or empty VIX
// fetch falls back to FallbackVIX; a failed bar fetch is an error.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, errors.New("fetch daily bars: no bars returned")
	}

	vix, err := c.Fetcher.FetchLatestClose(ctx, c.VolatilitySymbol)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("symbol", c.VolatilitySymbol).Float64("fallback", c.FallbackVIX).
			Msg("volatility fetch failed, using fallback")
		vix = c.FallbackVIX
	case vix <= 0:
		log.Warn().Str("symbol", c.VolatilitySymbol).Float64("fallback", c.FallbackVIX).
			Msg("volatility fetch returned no value, using fallback")
		vix = c.FallbackVIX
	}

	log.Info().Str("source", c.Fetcher.Name()).Str("symbol", c.Symbol).
		Int("bars", len(bars)).Float64("vix", vix).Msg("market data collected")

	return &model.PriceSeries{
		Symbol:    c.Symbol,
		Bars:      bars,
		VIX:       vix,
		FetchedAt: time.Now(),
	}, nil
}
