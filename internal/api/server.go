package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/scheduler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// SnapshotSource provides the latest pipeline run.
type SnapshotSource interface {
	LastResult() (*scheduler.Snapshot, bool)
}

// Server wraps the Echo HTTP server.
type Server struct {
	echo *echo.Echo
	addr string
}

// NewServer builds the HTTP server. Metrics are served from gatherer;
// ad-hoc backtests run with cfg.
func NewServer(addr string, src SnapshotSource, gatherer prometheus.Gatherer, cfg backtest.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(recoverer())
	e.Use(requestLogging())

	h := &handler{src: src, cfg: cfg}
	e.GET("/healthz", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	g := e.Group("/api/v1")
	g.GET("/signal", h.signal)
	g.GET("/indicators", h.indicators)
	g.GET("/backtest", h.lastBacktest)
	g.POST("/backtest", h.runBacktest)

	return &Server{echo: e, addr: addr}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves in the background until Stop.
func (s *Server) Start() {
	go func() {
		log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info().Msg("http server stopped")
	return nil
}
