package middleware

import (
	"vagaMatch/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const TraceIDHeader = "X-Trace-ID"

// TraceID attaches a trace id to the request context so recommendation
// events triggered by the request carry it. An incoming header wins,
// otherwise a fresh id is generated.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tid := c.Request().Header.Get(TraceIDHeader)
			if tid == "" {
				tid = uuid.NewString()
			}

			ctx := recommendation.ContextWithTraceID(c.Request().Context(), tid)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(TraceIDHeader, tid)

			return next(c)
		}
	}
}
