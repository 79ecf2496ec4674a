package admission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/httperr"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()
	return h, e
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patientId":"` + uuid.New().String() + `","admittedBy":"` + uuid.New().String() +
		`","roomNumber":"204","bedNumber":"B","diagnosis":"Pneumonia"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Create_MissingDiagnosis(t *testing.T) {
	h, e := newTestHandler()
	body := `{"patientId":"` + uuid.New().String() + `","admittedBy":"` + uuid.New().String() +
		`","roomNumber":"204","bedNumber":"B"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	appErr, ok := err.(*httperr.Error)
	if !ok || appErr.Kind != httperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandler_Discharge(t *testing.T) {
	h, e := newTestHandler()
	a := validAdmission()
	if err := h.svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.Discharge(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Admission
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Status != "Discharged" {
		t.Errorf("expected Discharged, got %q", got.Status)
	}
	if got.DischargeDate == nil {
		t.Error("expected discharge date to be stamped")
	}
}

func TestHandler_Discharge_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Discharge(c)
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
