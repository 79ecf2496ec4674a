package billing

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
	finance := api.Group("/finance", auth.RequireRole(auth.RoleFinance))

	g := finance.Group("/bills")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/status/:status", h.ListByStatus)
	g.GET("/patient/:patientId", h.ListByPatient)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:billId/payments", h.RecordPayment)

	finance.GET("/stats/revenue", h.RevenueStats)
	finance.GET("/stats/pending", h.PendingPayments)
	finance.GET("/stats/overdue", h.OverduePayments)
}

func (h *Handler) Create(c echo.Context) error {
	var b Bill
	if err := c.Bind(&b); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid bill id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByStatus(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByStatus(c.Request().Context(), c.Param("status"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
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
		return httperr.Validation("invalid bill id")
	}
	var b Bill
	if err := c.Bind(&b); err != nil {
		return httperr.Validation("invalid request body")
	}
	b.ID = id
	if err := h.svc.Update(c.Request().Context(), &b); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid bill id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "bill deleted"})
}

func (h *Handler) RecordPayment(c echo.Context) error {
	billID, err := uuid.Parse(c.Param("billId"))
	if err != nil {
		return httperr.Validation("invalid bill id")
	}
	var body struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return httperr.Validation("invalid request body")
	}
	summary, err := h.svc.RecordPayment(c.Request().Context(), billID, body.Amount, body.Method)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) RevenueStats(c echo.Context) error {
	var start, end *time.Time
	if v := c.QueryParam("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return httperr.Validation("invalid startDate, expected YYYY-MM-DD")
		}
		start = &t
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return httperr.Validation("invalid endDate, expected YYYY-MM-DD")
		}
		end = &t
	}
	stats, err := h.svc.RevenueStats(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) PendingPayments(c echo.Context) error {
	summary, err := h.svc.PendingPayments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) OverduePayments(c echo.Context) error {
	summary, err := h.svc.OverduePayments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
