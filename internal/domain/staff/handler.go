package staff

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
	g := api.Group("/staff", auth.RequireRole(auth.RoleAdmin))

	// Attendance routes are registered before the parameterized staff routes.
	g.POST("/attendance", h.MarkAttendance)
	g.GET("/attendance", h.ListAttendance)
	g.GET("/attendance/date/:date", h.ListAttendanceByDate)
	g.GET("/attendance/staff/:staffId", h.ListAttendanceByStaff)
	g.PUT("/attendance/:id", h.UpdateAttendance)

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/role/:role", h.ListByRole)
	g.GET("/department/:department", h.ListByDepartment)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var s Staff
	if err := c.Bind(&s); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &s); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid staff id")
	}
	s, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByRole(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByRole(c.Request().Context(), c.Param("role"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByDepartment(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByDepartment(c.Request().Context(), c.Param("department"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid staff id")
	}
	var s Staff
	if err := c.Bind(&s); err != nil {
		return httperr.Validation("invalid request body")
	}
	s.ID = id
	if err := h.svc.Update(c.Request().Context(), &s); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid staff id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "staff member deleted"})
}

// -- Attendance Handlers --

func (h *Handler) MarkAttendance(c echo.Context) error {
	var a Attendance
	if err := c.Bind(&a); err != nil {
		return httperr.Validation("invalid request body")
	}
	if err := h.svc.MarkAttendance(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAttendance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid attendance id")
	}
	var a Attendance
	if err := c.Bind(&a); err != nil {
		return httperr.Validation("invalid request body")
	}
	a.ID = id
	if err := h.svc.UpdateAttendance(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAttendance(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAttendance(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListAttendanceByDate(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return httperr.Validation("invalid date, expected YYYY-MM-DD")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAttendanceByDate(c.Request().Context(), date, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListAttendanceByStaff(c echo.Context) error {
	staffID, err := uuid.Parse(c.Param("staffId"))
	if err != nil {
		return httperr.Validation("invalid staff id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAttendanceByStaff(c.Request().Context(), staffID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
