package middleware

import (
	"hotelPricing/pkg/trace"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Trace reuses the caller's X-Request-ID or assigns a new one, stores it in the
// request context and echoes it on the response.
func Trace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(trace.HeaderRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.SetRequest(req.WithContext(trace.WithID(req.Context(), id)))
			c.Response().Header().Set(trace.HeaderRequestID, id)

			return next(c)
		}
	}
}
