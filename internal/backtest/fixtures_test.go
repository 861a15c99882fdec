package backtest

import (
	"time"

	"SwingSentinel/internal/model"
)

var day0 = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

// fixture is a hand-built series with fully defined indicator rows, so the
// matcher can be exercised without the upstream stages.
type fixture struct {
	bars    []model.OHLCV
	rows    []model.IndicatorRow
	signals []model.SignalRow
}

// newFixture places closes on consecutive calendar days. Every row has
// EMA5 104 and ATR 0.5, so an entry at 100 gets stop 99, targets 105 and
// 105.5 and 1000 shares under DefaultParams.
func newFixture(closes ...float64) *fixture {
	days := make([]int, len(closes))
	for i := range days {
		days[i] = i
	}
	return newFixtureOnDays(days, closes)
}

func newFixtureOnDays(days []int, closes []float64) *fixture {
	f := &fixture{}
	for i, c := range closes {
		ts := day0.AddDate(0, 0, days[i])
		f.bars = append(f.bars, model.OHLCV{Time: ts, Open: c, High: c, Low: c, Close: c, Volume: 1000})
		f.rows = append(f.rows, model.IndicatorRow{
			Time: ts, EMA5: 104, EMA10: 103, EMA21: 102, EMA50: 101,
			ATR: 0.5, HasATR: true, VolumeAvg: 900, HasVolumeAvg: true,
		})
		f.signals = append(f.signals, model.SignalRow{Time: ts, Close: c, Ready: true})
	}
	return f
}

func (f *fixture) entry(idx ...int) *fixture {
	for _, i := range idx {
		f.signals[i].EntrySignal = true
		f.signals[i].Strength = 6
	}
	return f
}

func (f *fixture) exit(idx ...int) *fixture {
	for _, i := range idx {
		f.signals[i].ExitSignal = true
	}
	return f
}

func flat(n int, c float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c
	}
	return out
}

// wickSeries rises one point a day; from bar 56 every eighth bar carries a
// long lower wick on heavy volume, which satisfies every entry criterion.
func wickSeries(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		b := model.OHLCV{
			Time:   day0.AddDate(0, 0, i),
			Open:   c - 0.2,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000,
		}
		if i >= 56 && i%8 == 0 {
			b.Low = c - 10
			b.Volume = 3000
		}
		bars[i] = b
	}
	return bars
}
