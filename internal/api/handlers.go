package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "conversation-starters/internal/common/errors"
	"conversation-starters/internal/common/metrics"
	"conversation-starters/internal/pipeline"

	"github.com/labstack/echo/v4"
)

func (s *Server) generateStarters(c echo.Context) error {
	start := time.Now()
	route := c.Path()
	log := s.logger.With(map[string]interface{}{
		"requestId": c.Response().Header().Get(echo.HeaderXRequestID),
		"route":     route,
	})

	status, payload := s.runPipeline(c)

	metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

	if env, ok := payload.(pipeline.ErrorEnvelope); ok {
		fields := map[string]interface{}{"status": status, "details": env.Details}
		if status >= http.StatusInternalServerError {
			log.Error("generate starters failed", fields)
		} else {
			log.Warn("generate starters rejected", fields)
		}
	} else {
		log.Info("generate starters completed", map[string]interface{}{
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	return c.JSON(status, payload)
}

func (s *Server) runPipeline(c echo.Context) (int, interface{}) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return http.StatusBadRequest, pipeline.NewErrorEnvelope(
			apperrors.NewInvalidRequestError(fmt.Sprintf("read body: %v", err)))
	}

	if err := s.service.ValidateBody(body); err != nil {
		return http.StatusBadRequest, pipeline.NewErrorEnvelope(err)
	}

	var req pipeline.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return http.StatusBadRequest, pipeline.NewErrorEnvelope(
			apperrors.NewInvalidRequestError(fmt.Sprintf("decode body: %v", err)))
	}

	env, err := s.service.Generate(c.Request().Context(), &req)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeInvalidRequest {
			return http.StatusBadRequest, pipeline.NewErrorEnvelope(err)
		}
		return http.StatusInternalServerError, pipeline.NewErrorEnvelope(err)
	}
	return http.StatusOK, env
}

// preflight gives OPTIONS a route so the group's CORS middleware runs for
// it. The middleware answers the request itself.
func (s *Server) preflight(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(c echo.Context) error {
	failed := make(map[string]string)
	for name, check := range s.checks {
		if err := check(c.Request().Context()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"checks": failed,
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
