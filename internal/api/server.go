// Package api serves the conversation-starters pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/pipeline"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RouteFunctions = "/functions/v1/generate-starters"
	RouteProxy     = "/api/generate-starters"

	maxBodyBytes = 1 << 20
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	echo    *echo.Echo
	service *pipeline.Service
	checks  map[string]ReadinessCheck
	logger  logger.Logger
}

// NewServer serves the starter routes plus the ops routes.
func NewServer(service *pipeline.Service, checks map[string]ReadinessCheck, log logger.Logger) *Server {
	s := NewOpsServer(checks, log)
	s.service = service
	e := s.echo

	cors := middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	})

	starters := e.Group("", cors)
	for _, route := range []string{RouteFunctions, RouteProxy} {
		starters.POST(route, s.generateStarters)
		starters.OPTIONS(route, s.preflight)
	}

	return s
}

// NewOpsServer serves only /health, /ready and /metrics.
func NewOpsServer(checks map[string]ReadinessCheck, log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		checks: checks,
		logger: log,
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())

	e.GET("/health", s.health)
	e.GET("/ready", s.ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": addr})
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
