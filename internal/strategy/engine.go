package strategy

import (
	"fmt"

	"SwingSentinel/internal/logger"
	"SwingSentinel/internal/model"
)

var signalLog = logger.New("signal")

// Params configures the entry and exit rules.
type Params struct {
	ATREntryMultiplier float64
	VIXThreshold       float64
	MinHistory         int // bars required up to and including the evaluated bar
	MomentumLookback   int
	TrendBreakRatio    float64 // exit when close < ratio * EMA21
	MaxDailyDropPct    float64 // exit when the daily return is below -pct
}

// DefaultParams returns the standard rule set.
func DefaultParams() Params {
	return Params{
		ATREntryMultiplier: 1.5,
		VIXThreshold:       30,
		MinHistory:         50,
		MomentumLookback:   5,
		TrendBreakRatio:    0.97,
		MaxDailyDropPct:    3,
	}
}

// Evaluate applies the six entry criteria to bar i.
// It returns an *model.InsufficientDataError when bar i is inside the
// warm-up window or its indicators are not fully defined.
func Evaluate(bars []model.OHLCV, rows []model.IndicatorRow, i int, vix float64, p Params) (*model.SignalRow, error) {
	if err := checkInputs(bars, rows, i); err != nil {
		return nil, err
	}
	if i+1 < p.MinHistory || !rows[i].Ready() {
		return nil, &model.InsufficientDataError{Need: p.MinHistory, Have: i + 1}
	}

	v := barView{bar: bars[i], row: rows[i], vix: vix, p: p}
	if i >= p.MomentumLookback {
		v.lookback = &bars[i-p.MomentumLookback]
	}

	criteria := []model.Criterion{
		emaAlignment(v),
		priceAbove50EMA(v),
		priceTouchEntry(v),
		volumeAboveAvg(v),
		vixBelowThreshold(v),
		momentumPositive(v),
	}

	sig := &model.SignalRow{
		Time:              bars[i].Time,
		Close:             bars[i].Close,
		EMAAlignment:      criteria[0].Passed,
		PriceAbove50EMA:   criteria[1].Passed,
		PriceTouchEntry:   criteria[2].Passed,
		VolumeAboveAvg:    criteria[3].Passed,
		VIXBelowThreshold: criteria[4].Passed,
		MomentumPositive:  criteria[5].Passed,
		EntryLevel:        entryLevel(v),
		ExitSignal:        exitSignal(bars, rows, i, p),
		Ready:             true,
		Criteria:          criteria,
	}
	sig.EntrySignal = true
	for _, c := range criteria {
		if c.Passed {
			sig.Strength++
		} else {
			sig.EntrySignal = false
		}
	}

	if signalLog.Enabled() {
		signalLog.Debug("bar evaluated", "index", i, "time", sig.Time, "strength", sig.Strength, "entry", sig.EntrySignal)
	}
	return sig, nil
}

// ExitSignal reports a trend break or a sharp daily drop at bar i.
// The first bar has no previous close, so only the trend break applies.
func ExitSignal(bars []model.OHLCV, rows []model.IndicatorRow, i int, p Params) (bool, error) {
	if err := checkInputs(bars, rows, i); err != nil {
		return false, err
	}
	return exitSignal(bars, rows, i, p), nil
}

func exitSignal(bars []model.OHLCV, rows []model.IndicatorRow, i int, p Params) bool {
	c := bars[i].Close
	if c < p.TrendBreakRatio*rows[i].EMA21 {
		return true
	}
	if i == 0 || bars[i-1].Close <= 0 {
		return false
	}
	ret := (c/bars[i-1].Close - 1) * 100
	return ret < -p.MaxDailyDropPct
}

// EvaluateSeries evaluates every bar. Bars without enough history yield a
// row with Ready false and no entry signal; their exit signal is still set.
func EvaluateSeries(bars []model.OHLCV, rows []model.IndicatorRow, vix float64, p Params) ([]model.SignalRow, error) {
	if len(bars) != len(rows) {
		return nil, &model.MalformedInputError{
			Index:  min(len(bars), len(rows)),
			Reason: fmt.Sprintf("%d bars but %d indicator rows", len(bars), len(rows)),
		}
	}

	out := make([]model.SignalRow, len(bars))
	for i := range bars {
		sig, err := Evaluate(bars, rows, i, vix, p)
		if err != nil {
			out[i] = model.SignalRow{
				Time:       bars[i].Time,
				Close:      bars[i].Close,
				ExitSignal: exitSignal(bars, rows, i, p),
			}
			continue
		}
		out[i] = *sig
	}
	return out, nil
}

// EvaluateLatest evaluates the most recent bar, as the live monitor does.
func EvaluateLatest(bars []model.OHLCV, rows []model.IndicatorRow, vix float64, p Params) (*model.SignalRow, error) {
	if len(bars) == 0 {
		return nil, &model.InsufficientDataError{Need: p.MinHistory, Have: 0}
	}
	return Evaluate(bars, rows, len(bars)-1, vix, p)
}

func checkInputs(bars []model.OHLCV, rows []model.IndicatorRow, i int) error {
	if len(bars) != len(rows) {
		return &model.MalformedInputError{
			Index:  min(len(bars), len(rows)),
			Reason: fmt.Sprintf("%d bars but %d indicator rows", len(bars), len(rows)),
		}
	}
	if i < 0 || i >= len(bars) {
		return fmt.Errorf("bar index %d out of range [0, %d)", i, len(bars))
	}
	return nil
}
