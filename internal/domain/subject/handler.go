package subject

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ohs/ohs/internal/platform/auth"
	"github.com/ohs/ohs/internal/platform/httpx"
	"github.com/ohs/ohs/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleNurse, auth.RoleClerk))
	staff.GET("/subjects", h.ListSubjects)
	staff.GET("/subjects/:id", h.GetSubject)
	staff.POST("/subjects", h.CreateSubject)
	staff.PUT("/subjects/:id", h.UpdateSubject)

	// Deleting a subject cascades to its history and examinations.
	api.DELETE("/subjects/:id", h.DeleteSubject, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) CreateSubject(c echo.Context) error {
	var s Subject
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateSubject(c.Request().Context(), &s); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) GetSubject(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.svc.GetSubject(c.Request().Context(), id)
	if err != nil {
		return httpx.StoreError(err, "subject")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ListSubjects(c echo.Context) error {
	pg := pagination.FromContext(c)
	subjects, total, err := h.svc.ListSubjects(c.Request().Context(), c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return httpx.StoreError(err, "subject")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(subjects, total, pg))
}

func (h *Handler) UpdateSubject(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	var s Subject
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.ID = id
	if err := h.svc.UpdateSubject(c.Request().Context(), &s); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteSubject(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteSubject(c.Request().Context(), id); err != nil {
		return httpx.StoreError(err, "subject")
	}
	return c.NoContent(http.StatusNoContent)
}

// mapError separates service validation failures from repository errors.
func mapError(err error) error {
	if errors.Is(err, ErrInvalid) {
		return httpx.BadRequest(err)
	}
	return httpx.StoreError(err, "subject")
}
