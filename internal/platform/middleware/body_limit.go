package middleware

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// multipartOverhead is allowed on top of the asset size limit for the form
// boundary and part headers.
const multipartOverhead = 64 << 10

// BodyLimit caps request bodies. defaultLimit applies to JSON endpoints and
// uploadLimit to POSTs under uploadPrefix, where the limit is the asset size
// plus multipart framing. Oversized bodies get 413.
func BodyLimit(defaultLimit, uploadLimit int64, uploadPrefix string) echo.MiddlewareFunc {
	uploadLimit += multipartOverhead

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			limit := defaultLimit
			if req.Method == http.MethodPost && strings.HasPrefix(req.URL.Path, uploadPrefix) {
				limit = uploadLimit
			}

			// Content-Length allows early rejection; the reader wrapper
			// covers chunked bodies and lying headers.
			if req.ContentLength > limit {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}
			req.Body = &limitedReadCloser{ReadCloser: req.Body, remaining: limit}
			return next(c)
		}
	}
}

// limitedReadCloser fails reads once more than the limit has been consumed.
type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
	exceeded  bool
}

func (r *limitedReadCloser) Read(p []byte) (int, error) {
	if r.exceeded {
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}

	// Read one byte past the limit to detect overflow.
	if int64(len(p)) > r.remaining+1 {
		p = p[:r.remaining+1]
	}
	n, err := r.ReadCloser.Read(p)
	r.remaining -= int64(n)
	if r.remaining < 0 {
		r.exceeded = true
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	return n, err
}
