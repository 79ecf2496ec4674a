package staff

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
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_CreateStaff(t *testing.T) {
	h, e := newTestHandler()
	body := `{"name":"Dr. Rohan Mehta","staffCode":"DOC-001","role":"Doctor","department":"Cardiology","contactNumber":"9811111111","email":"rohan@hospital.test"}`
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

func TestHandler_CreateStaff_InvalidRole(t *testing.T) {
	h, e := newTestHandler()
	body := `{"name":"X","staffCode":"X-1","role":"Pilot","department":"General","contactNumber":"1","email":"x@y.z"}`
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

func TestHandler_ListByRole(t *testing.T) {
	h, e := newTestHandler()
	s := validStaff()
	if err := h.svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("Doctor")

	if err := h.ListByRole(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}

func TestHandler_MarkAttendance(t *testing.T) {
	h, e := newTestHandler()
	s := validStaff()
	if err := h.svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{"staffId":"` + s.ID.String() + `","checkIn":"09:15"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.MarkAttendance(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var got Attendance
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Status != "Present" {
		t.Errorf("expected default status Present, got %q", got.Status)
	}
}

func TestHandler_MarkAttendance_UnknownStaff(t *testing.T) {
	h, e := newTestHandler()
	body := `{"staffId":"` + uuid.New().String() + `","checkIn":"09:15"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.MarkAttendance(c)
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHandler_ListAttendanceByDate_BadDate(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("date")
	c.SetParamValues("02-03-2026")

	err := h.ListAttendanceByDate(c)
	appErr, ok := err.(*httperr.Error)
	if !ok || appErr.Kind != httperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
