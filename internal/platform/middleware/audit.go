package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ohs/ohs/internal/platform/auth"
)

// AuditEntry describes one access to clinic records.
type AuditEntry struct {
	RequestID string
	UserID    string
	UserRoles []string
	Resource  string
	SubjectID string
	Action    string
	Method    string
	Path      string
	IPAddress string
	Status    int
}

// Audit returns middleware that emits one "record_access" log line per
// request after the handler ran. It must be installed after the auth
// middleware so the caller is known.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			entry := buildAuditEntry(c)
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					entry.Status = he.Code
				} else if entry.Status < http.StatusBadRequest {
					entry.Status = http.StatusInternalServerError
				}
			}

			evt := logger.Info()
			if entry.Status == http.StatusForbidden || entry.Status == http.StatusUnauthorized {
				evt = logger.Warn()
			}
			evt.
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("resource", entry.Resource).
				Str("subject_id", entry.SubjectID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.Status).
				Msg("record_access")

			return err
		}
	}
}

func buildAuditEntry(c echo.Context) AuditEntry {
	req := c.Request()
	entry := AuditEntry{
		Method:    req.Method,
		Path:      req.URL.Path,
		IPAddress: c.RealIP(),
		Status:    c.Response().Status,
		Action:    actionFor(req.Method),
		Resource:  resourceFor(c.Path()),
		SubjectID: subjectIDFor(c),
	}
	if rid, ok := c.Get("request_id").(string); ok {
		entry.RequestID = rid
	}
	if p, ok := auth.PrincipalFromContext(req.Context()); ok {
		entry.UserID = p.UserID
		entry.UserRoles = p.Roles
	}
	if entry.Resource == "reports" {
		entry.Action = "report"
	}
	return entry
}

func actionFor(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// resourceFor names the record type from a route template, e.g.
// "/api/v1/subjects/:id/examinations" -> "examinations" and
// "/api/v1/reports/certificate" -> "reports".
func resourceFor(route string) string {
	route = strings.TrimPrefix(route, "/api/v1/")
	var last string
	for _, seg := range strings.Split(route, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") {
			continue
		}
		if seg == "reports" {
			return seg
		}
		last = seg
	}
	if last == "" {
		return "unknown"
	}
	return last
}

func subjectIDFor(c echo.Context) string {
	if strings.HasPrefix(c.Path(), "/api/v1/subjects/:id") {
		return c.Param("id")
	}
	return c.QueryParam("subject_id")
}
