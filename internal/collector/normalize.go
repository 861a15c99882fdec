package collector

import (
	"math"
	"sort"
	"time"

	"SwingSentinel/internal/model"
)

// NormalizeBars sorts bars by time, truncates timestamps to their calendar
// date and keeps the last bar of each date. High and low are widened to
// contain open and close. Providers occasionally append an intraday bar for the current
// session or round the range inside the body.
func NormalizeBars(bars []model.OHLCV) []model.OHLCV {
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := make([]model.OHLCV, 0, len(sorted))
	for _, b := range sorted {
		y, m, d := b.Time.Date()
		b.Time = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if b.Open <= 0 {
			b.Open = b.Close
		}
		b.High = math.Max(b.High, math.Max(b.Open, b.Close))
		if b.Low <= 0 {
			b.Low = math.Min(b.Open, b.Close)
		}
		b.Low = math.Min(b.Low, math.Min(b.Open, b.Close))

		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
