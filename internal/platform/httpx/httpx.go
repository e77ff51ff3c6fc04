// Package httpx holds the small request/response helpers shared by the
// record-management handlers.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ohs/ohs/internal/platform/db"
)

// ParseID reads a positive int64 path parameter.
func ParseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// StoreError converts a repository error into an HTTP error. Driver text is
// never returned; callers log the original through the request logger.
func StoreError(err error, resource string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, resource+" not found").SetInternal(err)
	case errors.Is(err, db.ErrMissingReference):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, resource+" references a missing record").SetInternal(err)
	case errors.Is(err, db.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, resource+" already exists").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "storage failure").SetInternal(err)
	}
}

// BadRequest wraps a validation error from a service.
func BadRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
