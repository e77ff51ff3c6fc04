package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders sets the response headers every clinic API response
// carries. Generated documents contain patient data, so nothing is cached.
// Framing is limited to the same origin: the clinic UI previews inline
// report PDFs in an iframe.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'self'")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")
			return next(c)
		}
	}
}
