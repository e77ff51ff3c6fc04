package examination

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
	read := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleNurse, auth.RoleClerk))
	read.GET("/subjects/:id/examinations", h.ListExaminations)
	read.GET("/subjects/:id/examinations/:exam_id", h.GetExamination)

	// Clinical entry is limited to clinical staff.
	clinical := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleNurse))
	clinical.POST("/subjects/:id/examinations", h.CreateExamination)
	clinical.DELETE("/subjects/:id/examinations/:exam_id", h.DeleteExamination)
}

func (h *Handler) CreateExamination(c echo.Context) error {
	subjectID, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	var e Examination
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	e.SubjectID = subjectID
	if err := h.svc.CreateExamination(c.Request().Context(), &e); err != nil {
		if errors.Is(err, ErrInvalid) {
			return httpx.BadRequest(err)
		}
		return httpx.StoreError(err, "examination")
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetExamination(c echo.Context) error {
	subjectID, id, err := examIDs(c)
	if err != nil {
		return err
	}
	e, err := h.svc.GetExamination(c.Request().Context(), subjectID, id)
	if err != nil {
		return httpx.StoreError(err, "examination")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListExaminations(c echo.Context) error {
	subjectID, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	exams, err := h.svc.ListExaminations(c.Request().Context(), subjectID)
	if err != nil {
		return httpx.StoreError(err, "examination")
	}
	return c.JSON(http.StatusOK, exams)
}

func (h *Handler) DeleteExamination(c echo.Context) error {
	subjectID, id, err := examIDs(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteExamination(c.Request().Context(), subjectID, id); err != nil {
		return httpx.StoreError(err, "examination")
	}
	return c.NoContent(http.StatusNoContent)
}

func examIDs(c echo.Context) (subjectID, id int64, err error) {
	if subjectID, err = httpx.ParseID(c, "id"); err != nil {
		return 0, 0, err
	}
	if id, err = httpx.ParseID(c, "exam_id"); err != nil {
		return 0, 0, err
	}
	return subjectID, id, nil
}
