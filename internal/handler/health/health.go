// Package health reports liveness and readiness of the service.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

// Pinger is a dependency that can be probed
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain ping function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type Handler struct {
	service string
	checks  map[string]Pinger
	timeout time.Duration
}

// New returns a handler reporting as service. Each check is probed by Ready.
func New(service string, checks map[string]Pinger) *Handler {
	return &Handler{service: service, checks: checks, timeout: 2 * time.Second}
}

// Live handles GET /health
func (h *Handler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.service,
	})
}

// Ready handles GET /health/ready
func (h *Handler) Ready(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.PingContext(ctx); err != nil {
			log.Error("Readiness check failed", zap.String("check", name), zap.Error(err))
			checks[name] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}
	return c.JSON(status, echo.Map{
		"status":  state,
		"service": h.service,
		"checks":  checks,
	})
}
