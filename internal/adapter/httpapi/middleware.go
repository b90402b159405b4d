package httpapi

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestLogging logs every request with a generated request ID, the resolved
// client IP and the processing time, which is also exposed to clients via the
// X-Process-Time header. Responses with status >= 400 log at warn, >= 500 at
// error.
func RequestLogging(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := uuid.NewString()
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			// Headers must be set before the response body is committed.
			c.Response().Before(func() {
				c.Response().Header().Set("X-Process-Time", fmt.Sprintf("%.6f", time.Since(start).Seconds()))
			})

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)

			status := c.Response().Status
			attrs := []any{
				slog.String("request_id", requestID),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.String("client_ip", clientIP(c)),
				slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
			}

			switch {
			case status >= 500:
				logger.Error("request completed", attrs...)
			case status >= 400:
				logger.Warn("request completed", attrs...)
			default:
				logger.Info("request completed", attrs...)
			}
			return nil
		}
	}
}

// clientIP resolves the originating client address, preferring proxy headers
// over the direct peer address.
func clientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := c.Request().Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return c.Request().RemoteAddr
}
