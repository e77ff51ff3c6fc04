package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// newRoleMatrixServer mounts routes guarded the way the API groups are:
// staff reads, clinical writes, doctor-only certificates and signatures,
// admin-only deletes.
func newRoleMatrixServer() *echo.Echo {
	e := echo.New()
	api := e.Group("/api/v1", JWTMiddleware(JWTConfig{SigningKey: testSigningKey}))

	staff := api.Group("", RequireRole(RoleDoctor, RoleNurse, RoleClerk))
	staff.GET("/subjects", okHandler)
	staff.GET("/reports/employee", okHandler)
	staff.GET("/reports/certificate", okHandler, RequireRole(RoleDoctor))

	clinical := api.Group("", RequireRole(RoleDoctor, RoleNurse))
	clinical.POST("/subjects/:id/examinations", okHandler)

	api.POST("/assets/signature", okHandler, RequireRole(RoleDoctor))
	api.DELETE("/subjects/:id", okHandler, RequireRole(RoleAdmin))
	return e
}

func TestRoleMatrix(t *testing.T) {
	e := newRoleMatrixServer()

	type call struct{ method, path string }
	var (
		listSubjects  = call{http.MethodGet, "/api/v1/subjects"}
		employeeRpt   = call{http.MethodGet, "/api/v1/reports/employee"}
		certificate   = call{http.MethodGet, "/api/v1/reports/certificate"}
		createExam    = call{http.MethodPost, "/api/v1/subjects/1/examinations"}
		signature     = call{http.MethodPost, "/api/v1/assets/signature"}
		deleteSubject = call{http.MethodDelete, "/api/v1/subjects/1"}
	)

	tests := []struct {
		role  string
		call  call
		allow bool
	}{
		{RoleClerk, listSubjects, true},
		{RoleClerk, employeeRpt, true},
		{RoleClerk, certificate, false},
		{RoleClerk, createExam, false},
		{RoleClerk, deleteSubject, false},
		{RoleNurse, employeeRpt, true},
		{RoleNurse, certificate, false},
		{RoleNurse, createExam, true},
		{RoleNurse, signature, false},
		{RoleDoctor, certificate, true},
		{RoleDoctor, createExam, true},
		{RoleDoctor, signature, true},
		{RoleDoctor, deleteSubject, false},
		{RoleAdmin, certificate, true},
		{RoleAdmin, deleteSubject, true},
		{"patient", listSubjects, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.call.method+" "+tt.call.path, func(t *testing.T) {
			token := createTestToken(t, validClaims("user-"+tt.role, tt.role), testSigningKey)
			req := httptest.NewRequest(tt.call.method, tt.call.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			want := http.StatusForbidden
			if tt.allow {
				want = http.StatusOK
			}
			if rec.Code != want {
				t.Errorf("expected %d, got %d", want, rec.Code)
			}
		})
	}
}

func TestRoleMatrix_NoToken(t *testing.T) {
	e := newRoleMatrixServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subjects", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
}
