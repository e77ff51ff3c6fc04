package occupational

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ohs/ohs/internal/platform/auth"
	"github.com/ohs/ohs/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleNurse, auth.RoleClerk))
	staff.GET("/subjects/:id/history", h.ListHistory)
	staff.POST("/subjects/:id/history", h.AddHistory)
	staff.DELETE("/subjects/:id/history/:history_id", h.DeleteHistory)
}

func (h *Handler) AddHistory(c echo.Context) error {
	subjectID, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	var entry History
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	entry.SubjectID = subjectID
	if err := h.svc.AddHistory(c.Request().Context(), &entry); err != nil {
		if errors.Is(err, ErrInvalid) {
			return httpx.BadRequest(err)
		}
		return httpx.StoreError(err, "occupational history")
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListHistory(c echo.Context) error {
	subjectID, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.svc.ListHistory(c.Request().Context(), subjectID)
	if err != nil {
		return httpx.StoreError(err, "occupational history")
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) DeleteHistory(c echo.Context) error {
	subjectID, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	id, err := httpx.ParseID(c, "history_id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteHistory(c.Request().Context(), subjectID, id); err != nil {
		return httpx.StoreError(err, "occupational history")
	}
	return c.NoContent(http.StatusNoContent)
}
