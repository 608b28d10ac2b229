package middleware

import (
	"dynamicPricing/pkg/logger"
	"errors"
	"net/http"
	"strings"

	jsonres "dynamicPricing/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape the handlers (unknown routes,
// method mismatches, panics surfaced by Recover) as jsonres payloads.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	label := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
	if label == "" {
		label = "INTERNAL_SERVER_ERROR"
	}

	if err := c.JSON(code, jsonres.Error(label, message, nil)); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}
