package asset

import (
	"errors"
	"fmt"
	"io"
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
	staff.GET("/assets/headers", h.ListHeaders)
	staff.GET("/assets/headers/:id", h.DownloadHeader)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/assets/headers", h.UploadHeader)
	admin.DELETE("/assets/headers/:id", h.DeleteHeader)

	// Signatures always belong to the caller.
	doctors := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctors.POST("/assets/signature", h.UploadSignature)
	doctors.GET("/assets/signature", h.GetSignature)
}

func (h *Handler) UploadHeader(c echo.Context) error {
	p, _ := auth.PrincipalFromContext(c.Request().Context())
	name, data, err := h.readUpload(c)
	if err != nil {
		return err
	}
	hdr, err := h.svc.UploadHeader(c.Request().Context(), p.UserID, name, data)
	if err != nil {
		return mapError(err, "header")
	}
	return c.JSON(http.StatusCreated, hdr)
}

func (h *Handler) ListHeaders(c echo.Context) error {
	pg := pagination.FromContext(c)
	headers, total, err := h.svc.ListHeaders(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpx.StoreError(err, "header")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(headers, total, pg))
}

func (h *Handler) DownloadHeader(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	hdr, data, err := h.svc.HeaderContent(c.Request().Context(), id)
	if err != nil {
		return httpx.StoreError(err, "header")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", hdr.OriginalFilename))
	return c.Blob(http.StatusOK, contentTypes[hdr.Extension], data)
}

func (h *Handler) DeleteHeader(c echo.Context) error {
	id, err := httpx.ParseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteHeader(c.Request().Context(), id); err != nil {
		return httpx.StoreError(err, "header")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UploadSignature(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	name, data, err := h.readUpload(c)
	if err != nil {
		return err
	}
	sig, err := h.svc.UploadSignature(c.Request().Context(), p.UserID, name, data)
	if err != nil {
		return mapError(err, "signature")
	}
	return c.JSON(http.StatusCreated, sig)
}

func (h *Handler) GetSignature(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	content, err := h.svc.GetSignatureAsset(c.Request().Context(), p.UserID)
	if err != nil {
		if errors.Is(err, ErrMissing) {
			return echo.NewHTTPError(http.StatusNotFound, "no signature uploaded")
		}
		return httpx.StoreError(err, "signature")
	}
	return c.Blob(http.StatusOK, content.ContentType(), content.Data)
}

// readUpload reads the multipart "file" field, refusing anything above the
// configured limit without buffering it.
func (h *Handler) readUpload(c echo.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" is required")
	}
	if fh.Size > h.svc.MaxBytes() {
		return "", nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.svc.MaxBytes()))
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.svc.MaxBytes()+1))
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	return fh.Filename, data, nil
}

func mapError(err error, resource string) error {
	if errors.Is(err, ErrInvalid) {
		return httpx.BadRequest(err)
	}
	return httpx.StoreError(err, resource)
}
