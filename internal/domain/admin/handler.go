package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the reporting endpoints on g, normally /api/admin.
// They carry no authentication.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/appointments", h.ListAppointments)
	g.GET("/patients", h.ListPatients)
	g.GET("/doctors", h.ListDoctors)
	g.GET("/statistics", h.Statistics)
}

func internalError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListAppointments(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p))
}

func (h *Handler) ListPatients(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListPatients(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p))
}

func (h *Handler) ListDoctors(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListDoctors(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p))
}

func (h *Handler) Statistics(c echo.Context) error {
	stats, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
