package middleware

import (
	"errors"
	"net/http"
	"strings"

	"screenBreak/pkg/logger"
	jsonres "screenBreak/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped the handlers (routing misses,
// bind failures, panics caught by Recover) as JSON.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	status := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, jsonres.Error(status, message, nil))
	}
	if err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}
