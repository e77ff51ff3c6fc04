package company

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
	staff.GET("/companies", h.ListCompanies)
	staff.GET("/companies/:id", h.GetCompany)
	staff.POST("/companies", h.CreateCompany)
	staff.PUT("/companies/:id", h.UpdateCompany)

	api.DELETE("/companies/:id", h.DeleteCompany, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) CreateCompany(c echo.Context) error {
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateCompany(c.Request().Context(), &co); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, co)
}

func (h *Handler) GetCompany(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	co, err := h.svc.GetCompany(c.Request().Context(), id)
	if err != nil {
		return httpx.StoreError(err, "company")
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) ListCompanies(c echo.Context) error {
	pg := pagination.FromContext(c)
	companies, total, err := h.svc.ListCompanies(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpx.StoreError(err, "company")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(companies, total, pg))
}

func (h *Handler) UpdateCompany(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	co.ID = id
	if err := h.svc.UpdateCompany(c.Request().Context(), &co); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) DeleteCompany(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCompany(c.Request().Context(), id); err != nil {
		return httpx.StoreError(err, "company")
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	if errors.Is(err, ErrInvalid) {
		return httpx.BadRequest(err)
	}
	return httpx.StoreError(err, "company")
}
