package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Health reports whether the backing services answer.
type Health struct {
	checks map[string]Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler for the named checks.
func NewHealth(checks map[string]Pinger, logger *logger.Logger) *Health {
	return &Health{checks: checks, logger: logger}
}

func (h *Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("Health handler: check failed", "check", name, "error", err.Error())
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}
	return c.JSON(status, map[string]any{"status": state, "checks": results})
}
