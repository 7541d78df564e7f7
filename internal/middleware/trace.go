package middleware

import (
	"screenBreak/business/screentime"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// TraceID tags every request with an id, reusing the caller's X-Request-ID
// when present, and stores it in the request context for service logs.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := screentime.WithTraceID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(HeaderRequestID, id)
			c.Set("trace_id", id)

			return next(c)
		}
	}
}
