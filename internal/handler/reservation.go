package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/repository"
	"github.com/andrea360/fitness-center-backend/internal/service"
)

// ReservationHandler exposes the booking endpoints backed by the
// reservation engine.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

type createReservationReq struct {
	AppointmentID uint64 `json:"appointment_id"`
	PurchaseID    uint64 `json:"purchase_id"`
	MemberID      uint64 `json:"member_id"`
	Notes         string `json:"notes"`
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AppointmentID == 0 || req.PurchaseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "appointment_id and purchase_id are required"})
	}
	res, err := h.Reservations.Create(c.Request().Context(), p, service.CreateReservationInput{
		AppointmentID: req.AppointmentID,
		PurchaseID:    req.PurchaseID,
		MemberID:      req.MemberID,
		Notes:         req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /v1/reservations with optional filters:
// ?member_id=, ?appointment_id=, ?status=, ?from=, ?to=.  The service
// narrows the result to what the caller may see.
func (h *ReservationHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var f repository.ReservationFilter
	if raw := c.QueryParam("member_id"); raw != "" {
		id, err := queryID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member_id"})
		}
		f.MemberID = &id
	}
	if raw := c.QueryParam("appointment_id"); raw != "" {
		id, err := queryID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment_id"})
		}
		f.AppointmentID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		f.Status = &raw
	}
	from, err := optionalTime(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
	}
	f.From = from
	to, err := optionalTime(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
	}
	f.To = to

	details, err := h.Reservations.List(c.Request().Context(), p, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

type reservationStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/reservations/:id/status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reservationStatusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	res, err := h.Reservations.UpdateStatus(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type swapPurchaseReq struct {
	PurchaseID uint64  `json:"purchase_id"`
	Notes      *string `json:"notes"`
}

// SwapPurchase handles PATCH /v1/reservations/:id/purchase.
func (h *ReservationHandler) SwapPurchase(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req swapPurchaseReq
	if err := c.Bind(&req); err != nil || (req.PurchaseID == 0 && req.Notes == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "purchase_id or notes is required"})
	}
	res, err := h.Reservations.SwapPurchase(c.Request().Context(), p, id, req.PurchaseID, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Reservations.Delete(c.Request().Context(), p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Capacity handles GET /v1/appointments/:id/capacity.
func (h *ReservationHandler) Capacity(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.Reservations.AppointmentCapacity(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
