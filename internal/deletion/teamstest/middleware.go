package teamstest

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware echoes the caller's request id or assigns one, and
// keeps every page out of caches like the real site does for logged-in users.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Request().Header.Get(echo.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		h := c.Response().Header()
		h.Set(echo.HeaderXRequestID, reqID)
		h.Set("Cache-Control", "private, no-cache")
		return next(c)
	}
}
