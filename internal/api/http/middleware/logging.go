package middleware

import (
	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Logging logs one line per HTTP request.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle returns the echo middleware. Handler errors are passed to the echo error
// handler first so the logged status is the one sent to the client.
func (l *Logging) Handle() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				l.logger.Error("HTTP request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"duration_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
				return nil
			}

			l.logger.Info("HTTP request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP)
			return nil
		},
	})
}
