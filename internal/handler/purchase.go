package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/service"
)

// PurchaseHandler exposes the entitlement ledger: recording purchases,
// browsing bundles and manual counter corrections.
type PurchaseHandler struct {
	Purchases *service.PurchaseService
}

func NewPurchaseHandler(purchases *service.PurchaseService) *PurchaseHandler {
	if purchases == nil {
		panic("nil service passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Purchases: purchases}
}

type createPurchaseReq struct {
	MemberID  uint64 `json:"member_id"`
	ServiceID uint64 `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// Create handles POST /v1/purchases: a staff-recorded purchase with
// the manual validity window.
func (h *PurchaseHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createPurchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MemberID == 0 || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id and service_id are required"})
	}
	purchase, err := h.Purchases.CreateManual(c.Request().Context(), p, req.MemberID, req.ServiceID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, purchase)
}

// Get handles GET /v1/purchases/:id.
func (h *PurchaseHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	purchase, err := h.Purchases.GetByID(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}

// ListByMember handles GET /v1/members/:id/purchases with optional
// ?status= or ?active=true filters, and ?service_id= narrowing.
func (h *PurchaseHandler) ListByMember(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if raw := c.QueryParam("service_id"); raw != "" {
		serviceID, err := queryID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service_id"})
		}
		purchases, err := h.Purchases.ListByMemberAndService(ctx, p, memberID, serviceID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": purchases})
	}
	purchases, err := h.Purchases.ListByMember(ctx, p, memberID,
		c.QueryParam("status"), c.QueryParam("active") == "true")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": purchases})
}

// UseSession handles POST /v1/purchases/:id/use (staff correction).
func (h *PurchaseHandler) UseSession(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	purchase, err := h.Purchases.UseSession(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}

// RefundSession handles POST /v1/purchases/:id/refund (staff correction).
func (h *PurchaseHandler) RefundSession(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	purchase, err := h.Purchases.RefundSession(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}

// Cancel handles POST /v1/purchases/:id/cancel.
func (h *PurchaseHandler) Cancel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	purchase, err := h.Purchases.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}
