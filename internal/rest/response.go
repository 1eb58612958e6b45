package rest

import (
	"context"
	"errors"
	"net/http"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
	"hotelPricing/pkg/trace"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// errorStatus maps domain sentinels onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, event string, err error) error {
	status := errorStatus(err)
	tid := trace.IDFromContext(c.Request().Context())
	if status >= http.StatusInternalServerError {
		logger.Error(event, "trace_id", tid, "status", status, "error", err)
	} else {
		logger.Warn(event, "trace_id", tid, "status", status, "error", err)
	}
	return c.JSON(status, ResponseError{Message: err.Error()})
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}
