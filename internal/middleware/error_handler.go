package middleware

import (
	"errors"
	"net/http"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
	"hotelPricing/pkg/trace"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler renders errors that escape handlers, including echo's own
// routing and binding errors, as {"message": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("http_unhandled_error",
			"trace_id", trace.IDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorResponse{Message: message})
	}
	if writeErr != nil {
		logger.Error("http_error_write_failed", "error", writeErr)
	}
}
