package middleware

import (
	"strconv"
	"time"

	"hotelPricing/pkg/logger"
	"hotelPricing/pkg/metrics"
	"hotelPricing/pkg/trace"

	"github.com/labstack/echo/v4"
)

// Metrics records latency and count per route and logs each request.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			elapsed := time.Since(start)

			metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route, status).Observe(elapsed.Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, status).Inc()

			logger.Debug("http_request",
				"trace_id", trace.IDFromContext(c.Request().Context()),
				"method", c.Request().Method,
				"route", route,
				"status", c.Response().Status,
				"duration_ms", elapsed.Milliseconds(),
			)
			return nil
		}
	}
}
