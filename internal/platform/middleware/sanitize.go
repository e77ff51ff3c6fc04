package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const maxHeaderValueSize = 8192

var scriptPattern = regexp.MustCompile(`(?i)(<script|javascript\s*:|\bon\w+\s*=)`)

// Sanitize rejects requests carrying path traversal, null bytes, header
// line breaks, oversized header values or script fragments in the query
// string. Rejections are logged at warn and answered with 400.
func Sanitize(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if reason := rejectReason(c.Request()); reason != "" {
				logger.Warn().
					Str("path", c.Request().URL.Path).
					Str("remote_ip", c.RealIP()).
					Str("reason", reason).
					Msg("request rejected")
				return echo.NewHTTPError(http.StatusBadRequest, reason)
			}
			return next(c)
		}
	}
}

func rejectReason(req *http.Request) string {
	for _, p := range []string{req.URL.Path, req.URL.RawPath} {
		if hasTraversal(p) {
			return "path traversal detected"
		}
		if hasNullByte(p) {
			return "null byte in path"
		}
	}

	for name, values := range req.Header {
		for _, v := range values {
			if len(v) > maxHeaderValueSize {
				return "header " + name + " is too large"
			}
			if strings.ContainsAny(v, "\r\n") {
				return "line break in header " + name
			}
		}
	}

	for key, values := range req.URL.Query() {
		if hasNullByte(key) || scriptPattern.MatchString(key) {
			return "invalid query parameter name"
		}
		for _, v := range values {
			if hasNullByte(v) {
				return "null byte in query parameter " + key
			}
			if scriptPattern.MatchString(v) {
				return "script content in query parameter " + key
			}
		}
	}
	return ""
}

func hasTraversal(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(s, "..") || strings.Contains(lower, "%2e%2e") || strings.Contains(lower, "%252e")
}

func hasNullByte(s string) bool {
	return strings.ContainsRune(s, '\x00') || strings.Contains(strings.ToLower(s), "%00")
}
