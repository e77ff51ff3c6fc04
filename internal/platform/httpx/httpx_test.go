package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ohs/ohs/internal/platform/db"
)

func TestParseID(t *testing.T) {
	e := echo.New()
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tt.value)

		got, err := ParseID(c, "id")
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseID(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v", tt.value, got, err)
		}
	}
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("subject 7: %w", db.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("company create: %w", db.ErrConflict), http.StatusConflict},
		{fmt.Errorf("history create: %w", db.ErrMissingReference), http.StatusUnprocessableEntity},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		var he *echo.HTTPError
		if !errors.As(StoreError(tt.err, "record"), &he) {
			t.Fatalf("expected *echo.HTTPError for %v", tt.err)
		}
		if he.Code != tt.code {
			t.Errorf("StoreError(%v) code = %d, want %d", tt.err, he.Code, tt.code)
		}
		if msg, _ := he.Message.(string); msg == tt.err.Error() {
			t.Errorf("driver text leaked into message: %q", msg)
		}
	}
}
