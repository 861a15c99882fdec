package calculator

import (
	"math"
	"time"

	"SwingSentinel/internal/model"
)

// ValidateSeries rejects series that must never reach the indicator engine:
// calendar dates that do not strictly increase, negative or non-finite
// values, and bars whose close lies outside [low, high]. Bars are daily, so
// two bars on the same date are duplicates whatever their time of day.
func ValidateSeries(bars []model.OHLCV) error {
	for i, b := range bars {
		if i > 0 && !dateOf(b.Time).After(dateOf(bars[i-1].Time)) {
			return &model.MalformedInputError{Index: i, Reason: "date not strictly increasing"}
		}
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &model.MalformedInputError{Index: i, Reason: "non-finite value"}
			}
			if v < 0 {
				return &model.MalformedInputError{Index: i, Reason: "negative price or volume"}
			}
		}
		if b.Low > b.High {
			return &model.MalformedInputError{Index: i, Reason: "low above high"}
		}
		if b.Close < b.Low || b.Close > b.High {
			return &model.MalformedInputError{Index: i, Reason: "close outside [low, high]"}
		}
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
