package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the raw inputs of one evaluation: the bar history of a
// symbol plus the volatility index scalar observed alongside it.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	VIX       float64
	FetchedAt time.Time
}

// Latest returns the most recent bar, or false for an empty series.
func (s *PriceSeries) Latest() (OHLCV, bool) {
	if len(s.Bars) == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
