package admission

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinical := auth.RequireRole(auth.RoleReception, auth.RoleDoctor)

	g := api.Group("/patients/admissions", clinical)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/discharge", h.Discharge)

	api.GET("/patients/:id/admissions", h.ListByPatient, clinical)
}

func (h *Handler) Create(c echo.Context) error {
	var a Admission
	if err := c.Bind(&a); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid admission id")
	}
	var a Admission
	if err := c.Bind(&a); err != nil {
		return httperr.Validation("invalid request body")
	}
	a.ID = id
	if err := h.svc.Update(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Discharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid admission id")
	}
	var body struct {
		DischargeDate *time.Time `json:"dischargeDate"`
	}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("invalid request body")
	}
	a, err := h.svc.Discharge(c.Request().Context(), id, body.DischargeDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
