package middleware

import (
	"net/http"
	"vagaMatch/pkg/logger"

	jsonres "vagaMatch/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo fallback for errors no handler translated
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal Server Error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled HTTP error", err)
	}

	if err := c.JSON(code, jsonres.Error("ERROR", message, nil)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
