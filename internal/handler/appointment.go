package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/service"
)

// AppointmentHandler exposes the scheduling endpoints.  All business
// rules live in the appointment service; this layer binds requests,
// threads the principal and maps errors to statuses.
type AppointmentHandler struct {
	Appointments *service.AppointmentService
}

func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	if appointments == nil {
		panic("nil service passed to NewAppointmentHandler")
	}
	return &AppointmentHandler{Appointments: appointments}
}

type createAppointmentReq struct {
	ServiceID  uint64    `json:"service_id"`
	MemberID   uint64    `json:"member_id"`
	LocationID uint64    `json:"location_id"`
	StartTime  time.Time `json:"start_time"`
	Notes      string    `json:"notes"`
}

// Create handles POST /v1/appointments.
func (h *AppointmentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createAppointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ServiceID == 0 || req.MemberID == 0 || req.StartTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id, member_id and start_time are required"})
	}
	appt, err := h.Appointments.Create(c.Request().Context(), p, service.CreateAppointmentInput{
		ServiceID:  req.ServiceID,
		MemberID:   req.MemberID,
		LocationID: req.LocationID,
		StartTime:  req.StartTime,
		Notes:      req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, appt)
}

// Get handles GET /v1/appointments/:id.
func (h *AppointmentHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	appt, err := h.Appointments.GetByID(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

type updateAppointmentReq struct {
	StartTime *time.Time `json:"start_time"`
	Status    *string    `json:"status"`
	Notes     *string    `json:"notes"`
}

// Update handles PATCH /v1/appointments/:id.
func (h *AppointmentHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateAppointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	appt, err := h.Appointments.Update(c.Request().Context(), p, id, service.UpdateAppointmentInput{
		StartTime: req.StartTime,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

// Cancel handles POST /v1/appointments/:id/cancel.
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	appt, err := h.Appointments.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

// Complete handles POST /v1/appointments/:id/complete.
func (h *AppointmentHandler) Complete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	appt, err := h.Appointments.Complete(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

// Delete handles DELETE /v1/appointments/:id.
func (h *AppointmentHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Appointments.Delete(c.Request().Context(), p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Available handles GET /v1/members/:id/available-appointments.
func (h *AppointmentHandler) Available(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	appts, err := h.Appointments.AvailableForMember(c.Request().Context(), p, memberID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": appts})
}

// AvailableAtLocation handles GET /v1/locations/:id/appointments/available.
func (h *AppointmentHandler) AvailableAtLocation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	locationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	appts, err := h.Appointments.AvailableAtLocation(c.Request().Context(), p, locationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": appts})
}

// ListByLocation handles GET /v1/locations/:id/appointments with
// optional ?from= and ?to= RFC 3339 bounds.
func (h *AppointmentHandler) ListByLocation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	locationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	from, err := optionalTime(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
	}
	to, err := optionalTime(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
	}
	appts, err := h.Appointments.ListByLocation(c.Request().Context(), p, locationID, from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": appts})
}

// ListByMember handles GET /v1/members/:id/appointments.
func (h *AppointmentHandler) ListByMember(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	appts, err := h.Appointments.ListByMember(c.Request().Context(), p, memberID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": appts})
}

// CapacityByHour handles GET /v1/locations/:id/capacity?day=2026-06-15.
func (h *AppointmentHandler) CapacityByHour(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	locationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	day := time.Now().UTC()
	if raw := c.QueryParam("day"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day, want YYYY-MM-DD"})
		}
	}
	report, err := h.Appointments.CapacityByHour(c.Request().Context(), p, locationID, day)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// optionalTime parses an RFC 3339 query value, nil when empty.
func optionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
