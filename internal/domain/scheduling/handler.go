package scheduling

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the appointment endpoints. authn verifies the bearer
// token; role checks are applied per route so unauthenticated routes on the
// same group are unaffected.
func (h *Handler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	patient := []echo.MiddlewareFunc{authn, auth.RequireRole(auth.RolePatient)}
	api.POST("/appointments", h.Book, patient...)
	api.GET("/my-appointments", h.ListMine, patient...)
	api.PUT("/appointments/:id/cancel", h.Cancel, patient...)

	doctor := []echo.MiddlewareFunc{authn, auth.RequireRole(auth.RoleDoctor)}
	api.GET("/doctor-appointments", h.ListForDoctor, doctor...)
	api.PUT("/appointments/:id/status", h.UpdateStatus, doctor...)
	api.PUT("/appointments/:id/claim", h.Claim, doctor...)
}

func caller(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	return id, nil
}

func appointmentID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	return id, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrAppointmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "access denied, doctors only")
	case errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, "status must be one of scheduled, completed, cancelled, no-show")
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrUnknownService):
		return echo.NewHTTPError(http.StatusBadRequest, "unknown service_id")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

func (h *Handler) Book(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Book(c.Request().Context(), who.ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":             "appointment booked successfully",
		"appointment_id":      res.AppointmentID,
		"doctor_assigned":     res.DoctorAssigned,
		"doctor_id":           res.DoctorID,
		"notification_queued": res.NotificationQueued,
	})
}

func (h *Handler) ListMine(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	appts, err := h.svc.ListForPatient(c.Request().Context(), who.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) Cancel(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := appointmentID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Cancel(c.Request().Context(), id, who.ID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment cancelled successfully"})
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	appts, err := h.svc.ListForDoctor(c.Request().Context(), who)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	// role before payload
	if who.Role != auth.RoleDoctor {
		return httpError(ErrForbidden)
	}
	id, err := appointmentID(c)
	if err != nil {
		return err
	}
	var req StatusUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.UpdateStatus(c.Request().Context(), who, id, req.Status); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": fmt.Sprintf("appointment %s successfully", req.Status)})
}

func (h *Handler) Claim(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := appointmentID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Claim(c.Request().Context(), who, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment claimed successfully"})
}
