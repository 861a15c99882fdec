package strategy

import (
	"fmt"

	"SwingSentinel/internal/model"
)

// Criterion names as shown in reports.
const (
	CritEMAAlignment   = "EMA alignment"
	CritAbove50EMA     = "Price above 50 EMA"
	CritTouchEntry     = "Price touch entry"
	CritVolumeAboveAvg = "Volume above average"
	CritVIXBelow       = "VIX below threshold"
	CritMomentum       = "Momentum positive"
)

// barView is everything a criterion may look at for one bar.
type barView struct {
	bar      model.OHLCV
	row      model.IndicatorRow
	lookback *model.OHLCV // nil when fewer than MomentumLookback prior bars exist
	vix      float64
	p        Params
}

// emaAlignment requires the strict chain EMA10 > EMA21 > EMA50.
func emaAlignment(v barView) model.Criterion {
	passed := v.row.EMA10 > v.row.EMA21 && v.row.EMA21 > v.row.EMA50
	return model.Criterion{
		Name:       CritEMAAlignment,
		Passed:     passed,
		Commentary: fmt.Sprintf("EMA10=%.2f EMA21=%.2f EMA50=%.2f", v.row.EMA10, v.row.EMA21, v.row.EMA50),
	}
}

func priceAbove50EMA(v barView) model.Criterion {
	return model.Criterion{
		Name:       CritAbove50EMA,
		Passed:     v.bar.Close > v.row.EMA50,
		Commentary: fmt.Sprintf("close=%.2f EMA50=%.2f", v.bar.Close, v.row.EMA50),
	}
}

// entryLevel is the pullback threshold EMA5 - mult*ATR.
func entryLevel(v barView) float64 {
	return v.row.EMA5 - v.p.ATREntryMultiplier*v.row.ATR
}

// priceTouchEntry passes when the close or the intraday low reaches the entry level.
func priceTouchEntry(v barView) model.Criterion {
	level := entryLevel(v)
	return model.Criterion{
		Name:       CritTouchEntry,
		Passed:     v.bar.Close <= level || v.bar.Low <= level,
		Commentary: fmt.Sprintf("low=%.2f entry=%.2f", v.bar.Low, level),
	}
}

func volumeAboveAvg(v barView) model.Criterion {
	return model.Criterion{
		Name:       CritVolumeAboveAvg,
		Passed:     v.bar.Volume > v.row.VolumeAvg,
		Commentary: fmt.Sprintf("volume=%.0f avg=%.0f", v.bar.Volume, v.row.VolumeAvg),
	}
}

func vixBelowThreshold(v barView) model.Criterion {
	return model.Criterion{
		Name:       CritVIXBelow,
		Passed:     v.vix < v.p.VIXThreshold,
		Commentary: fmt.Sprintf("VIX=%.1f limit=%.0f", v.vix, v.p.VIXThreshold),
	}
}

// momentumPositive compares against the close MomentumLookback bars back.
// Without enough prior bars it passes.
func momentumPositive(v barView) model.Criterion {
	if v.lookback == nil {
		return model.Criterion{Name: CritMomentum, Passed: true, Commentary: "not enough prior bars"}
	}
	return model.Criterion{
		Name:       CritMomentum,
		Passed:     v.bar.Close > v.lookback.Close,
		Commentary: fmt.Sprintf("close=%.2f vs %.2f", v.bar.Close, v.lookback.Close),
	}
}
