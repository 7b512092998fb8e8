package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/middleware"
	"github.com/bookwarm/bookwarm-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	checkDatabase = "database"
	checkRedis    = "redis"
)

// RootMessage is the plaintext body of GET /.
const RootMessage = "🚀 Server running"

// HealthHandler exposes liveness (GET /) and dependency health (GET /status).
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// Root answers GET / with a static acknowledgement.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, RootMessage)
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth reports the service status and the configured dependency checks.
//
//   - 200 when every required check passes
//   - 503 when the database is unreachable
//
// Redis is reported but never fails the endpoint: the API serves requests
// without it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability.HealthChecks

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	if cfg.Runs(checkDatabase) {
		result := h.runCheck(c.Request().Context(), &logger, checkDatabase, cfg.Timeout, h.server.DB.Ping)
		response.Checks[checkDatabase] = result
		if result.Error != "" {
			response.Status = "unhealthy"
		}
	}

	if cfg.Runs(checkRedis) && h.server.Redis != nil {
		response.Checks[checkRedis] = h.runCheck(c.Request().Context(), &logger, checkRedis, cfg.Timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(
	ctx context.Context,
	logger *zerolog.Logger,
	name string,
	timeout time.Duration,
	ping func(ctx context.Context) error,
) checkResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	return checkResult{Status: "healthy", ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordHealthEvent(attrs map[string]interface{}) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
