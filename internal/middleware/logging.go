package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/metrics"
)

// RequestLogger logs every request with its route, user, status and
// duration, and feeds the Prometheus latency histogram. Route templates
// (not raw paths) are used as the metric label to keep cardinality bounded.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			duration := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			metrics.RequestDuration.WithLabelValues(
				c.Request().Method,
				route,
				strconv.Itoa(status),
			).Observe(duration.Seconds())

			logFn := slog.Info
			if status >= 500 {
				logFn = slog.Error
			} else if status >= 400 {
				logFn = slog.Warn
			}
			logFn("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"user_id", UserID(c),
				"duration_ms", duration.Milliseconds(),
			)

			return nil
		}
	}
}
