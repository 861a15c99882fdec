package api

import (
	"errors"
	"net/http"
	"time"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/model"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

type handler struct {
	src SnapshotSource
	cfg backtest.Config
}

type signalResponse struct {
	Symbol string           `json:"symbol"`
	VIX    float64          `json:"vix"`
	At     time.Time        `json:"at"`
	Ready  bool             `json:"ready"`
	Reason string           `json:"reason,omitempty"`
	Label  string           `json:"label,omitempty"`
	Signal *model.SignalRow `json:"signal,omitempty"`
	Levels *backtest.Levels `json:"levels,omitempty"`
}

type indicatorsQuery struct {
	Limit int `query:"limit" default:"20" validate:"gte=1,lte=500"`
}

type backtestQuery struct {
	Trades int `query:"trades" validate:"gte=0"`
}

type backtestResponse struct {
	RunID   string                   `json:"run_id,omitempty"`
	Symbol  string                   `json:"symbol"`
	From    time.Time                `json:"from"`
	To      time.Time                `json:"to"`
	Summary model.PerformanceSummary `json:"summary"`
	Trades  []model.SimulatedTrade   `json:"trades"`
	Latest  *model.SignalRow         `json:"latest,omitempty"`
}

type backtestRequest struct {
	Symbol          string        `json:"symbol" default:"CUSTOM"`
	VIX             float64       `json:"vix" validate:"gt=0"`
	Bars            []model.OHLCV `json:"bars" validate:"min=2"`
	SuppressOverlap bool          `json:"suppress_overlap"`
}

// bindAndValidate binds the request, fills defaults and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := defaults.Set(req); err != nil {
		return err
	}
	return validate.StructCtx(c.Request().Context(), req)
}

func noSnapshot(c echo.Context) error {
	return errorResponse(c, http.StatusServiceUnavailable, "no evaluation has completed yet")
}

func (h *handler) health(c echo.Context) error {
	_, ready := h.src.LastResult()
	return success(c, map[string]any{"status": "ok", "has_snapshot": ready})
}

func (h *handler) signal(c echo.Context) error {
	snap, ok := h.src.LastResult()
	if !ok {
		return noSnapshot(c)
	}
	resp := signalResponse{Symbol: snap.Symbol, VIX: snap.VIX, At: snap.At}
	if latest := snap.Result.Latest; latest != nil {
		resp.Ready = true
		resp.Signal = latest
		resp.Label = latest.Label()
		resp.Levels = &snap.Levels
	} else if snap.Result.LatestErr != nil {
		resp.Reason = snap.Result.LatestErr.Error()
	}
	return success(c, resp)
}

func (h *handler) indicators(c echo.Context) error {
	q := &indicatorsQuery{}
	if err := bindAndValidate(c, q); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}
	snap, ok := h.src.LastResult()
	if !ok {
		return noSnapshot(c)
	}
	rows := snap.Result.Indicators
	return success(c, rows[max(len(rows)-q.Limit, 0):])
}

func (h *handler) lastBacktest(c echo.Context) error {
	q := &backtestQuery{}
	if err := bindAndValidate(c, q); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}
	snap, ok := h.src.LastResult()
	if !ok {
		return noSnapshot(c)
	}
	trades := snap.Result.Trades
	if q.Trades > 0 {
		trades = trades[max(len(trades)-q.Trades, 0):]
	}
	return success(c, backtestResponse{
		RunID:   snap.RunID,
		Symbol:  snap.Symbol,
		From:    snap.From,
		To:      snap.To,
		Summary: snap.Result.Summary,
		Trades:  trades,
		Latest:  snap.Result.Latest,
	})
}

// runBacktest runs the pipeline over caller-supplied bars.
func (h *handler) runBacktest(c echo.Context) error {
	req := &backtestRequest{}
	if err := bindAndValidate(c, req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}
	cfg := h.cfg
	cfg.Match.SuppressOverlap = req.SuppressOverlap

	res, err := backtest.Run(req.Bars, req.VIX, cfg)
	if err != nil {
		if errors.Is(err, model.ErrMalformedInput) || errors.Is(err, model.ErrInsufficientData) {
			return errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return success(c, backtestResponse{
		Symbol:  req.Symbol,
		From:    req.Bars[0].Time,
		To:      req.Bars[len(req.Bars)-1].Time,
		Summary: res.Summary,
		Trades:  res.Trades,
		Latest:  res.Latest,
	})
}
