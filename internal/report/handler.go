package report

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ohs/ohs/internal/platform/auth"
	"github.com/ohs/ohs/internal/report/render"
)

// Handler serves rendered reports inline.
type Handler struct {
	gen         *Generator
	redirectURL string
	logger      zerolog.Logger
}

// NewHandler creates a report handler. Unresolved subjects and companies
// redirect to redirectURL with an "error" query parameter.
func NewHandler(gen *Generator, redirectURL string, logger zerolog.Logger) *Handler {
	if redirectURL == "" {
		redirectURL = "/"
	}
	return &Handler{gen: gen, redirectURL: redirectURL, logger: logger}
}

// RegisterRoutes registers the report endpoints.
//
//	GET /api/v1/reports/certificate?subject_id=&header_id=&format=
//	GET /api/v1/reports/employee?subject_id=&header_id=&format=
//	GET /api/v1/reports/company?company=&header_id=&format=
//
// extra middleware (e.g. a rate limit) runs after the role check.
func (h *Handler) RegisterRoutes(api *echo.Group, extra ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{auth.RequireRole(auth.RoleDoctor, auth.RoleNurse, auth.RoleClerk)}, extra...)
	staff := api.Group("/reports", mw...)
	staff.GET("/employee", h.EmployeeSummary)
	staff.GET("/company", h.CompanySummary)
	staff.GET("/certificate", h.Certificate, auth.RequireRole(auth.RoleDoctor))
}

func (h *Handler) Certificate(c echo.Context) error {
	return h.subjectReport(c, KindCertificate)
}

func (h *Handler) EmployeeSummary(c echo.Context) error {
	return h.subjectReport(c, KindEmployeeSummary)
}

func (h *Handler) CompanySummary(c echo.Context) error {
	ref := c.QueryParam("company")
	if strings.TrimSpace(ref) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "company is required")
	}
	opts, err := options(c)
	if err != nil {
		return err
	}
	return h.serve(c, Request{Kind: KindAbnormalSummary, Company: ref, Options: opts})
}

func (h *Handler) subjectReport(c echo.Context, kind string) error {
	id, err := strconv.ParseInt(c.QueryParam("subject_id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "subject_id must be a positive integer")
	}
	opts, err := options(c)
	if err != nil {
		return err
	}
	return h.serve(c, Request{Kind: kind, SubjectID: id, Options: opts})
}

func options(c echo.Context) (Options, error) {
	var opts Options
	if raw := c.QueryParam("header_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return opts, echo.NewHTTPError(http.StatusBadRequest, "header_id must be a positive integer")
		}
		opts.HeaderID = &id
	}
	opts.Signer, _ = auth.PrincipalFromContext(c.Request().Context())
	return opts, nil
}

func (h *Handler) serve(c echo.Context, req Request) error {
	out, err := h.gen.Generate(c.Request().Context(), req, c.QueryParam("format"))
	if err != nil {
		return h.fail(c, req, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", out.Filename))
	return c.Blob(http.StatusOK, out.ContentType, out.Data)
}

func (h *Handler) fail(c echo.Context, req Request, err error) error {
	switch {
	case errors.Is(err, render.ErrUnknownFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return c.Redirect(http.StatusSeeOther, h.redirect(notFoundMessage(req)))
	}

	rid, _ := c.Get("request_id").(string)
	evt := h.logger.Error().Err(err).
		Str("request_id", rid).
		Str("report", req.Kind)
	if req.Kind == KindAbnormalSummary {
		evt = evt.Str("company", req.Company)
	} else {
		evt = evt.Int64("subject_id", req.SubjectID)
	}
	evt.Msg("report generation failed")

	return echo.NewHTTPError(http.StatusInternalServerError, "the report could not be generated, please try again later").SetInternal(err)
}

func notFoundMessage(req Request) string {
	if req.Kind == KindAbnormalSummary {
		return fmt.Sprintf("Company %q was not found", req.Company)
	}
	return fmt.Sprintf("Subject %d was not found", req.SubjectID)
}

// redirect appends msg as the "error" parameter, keeping any query already
// present on the configured URL.
func (h *Handler) redirect(msg string) string {
	u, err := url.Parse(h.redirectURL)
	if err != nil {
		return "/?error=" + url.QueryEscape(msg)
	}
	q := u.Query()
	q.Set("error", msg)
	u.RawQuery = q.Encode()
	return u.String()
}
