package examination

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_CreateExamination(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	body := `{
		"exam_date": "2024-03-05T00:00:00Z",
		"examiner": "Dr. Tan",
		"exam_type": "pre-employment",
		"final_assessment": "Fit for Work",
		"health_history": {"cough": true},
		"physical_exam": {"respiratory": "Abnormal", "hepatomegaly": true},
		"chemical_exposure": {"chemical_name": "Benzene", "baseline_result": "0.2 mg/L"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.CreateExamination(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var got Examination
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.SubjectID != 3 || !got.HealthHistory.Cough || !got.PhysicalExam.Hepatomegaly {
		t.Errorf("unexpected examination: %+v", got)
	}
	if got.PhysicalExam.Skin != FindingNormal {
		t.Errorf("expected blank skin finding to default to Normal, got %q", got.PhysicalExam.Skin)
	}
}

func TestHandler_CreateExamination_BadRequest(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"examiner":"Dr. Tan"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")

	var he *echo.HTTPError
	if err := h.CreateExamination(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetExamination_WrongSubject(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.CreateExamination(context.Background(), &Examination{SubjectID: 1, ExamDate: date("2024-03-05")})
	h := NewHandler(svc)
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id", "exam_id")
	c.SetParamValues("2", "1")

	var he *echo.HTTPError
	if err := h.GetExamination(c); !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another subject's exam, got %v", err)
	}
}

func TestHandler_ListExaminations(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.CreateExamination(context.Background(), &Examination{SubjectID: 1, ExamDate: date("2024-01-10")})
	svc.CreateExamination(context.Background(), &Examination{SubjectID: 1, ExamDate: date("2024-03-05")})
	h := NewHandler(svc)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.ListExaminations(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var exams []Examination
	json.Unmarshal(rec.Body.Bytes(), &exams)
	if len(exams) != 2 || exams[0].ID != 2 {
		t.Errorf("expected newest exam first, got %+v", exams)
	}
}

func TestHandler_DeleteExamination(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.CreateExamination(context.Background(), &Examination{SubjectID: 1, ExamDate: date("2024-01-10")})
	h := NewHandler(svc)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id", "exam_id")
	c.SetParamValues("1", "1")

	if err := h.DeleteExamination(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
