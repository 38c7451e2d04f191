package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/service"
)

// PaymentHandler exposes the checkout flow: opening provider sessions
// and receiving the confirmation callbacks.
type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	if payments == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments}
}

type checkoutReq struct {
	MemberID  uint64 `json:"member_id"`
	ServiceID uint64 `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// StartCheckout handles POST /v1/payments/checkout.
func (h *PaymentHandler) StartCheckout(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MemberID == 0 || req.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id and service_id are required"})
	}
	session, err := h.Payments.StartCheckout(c.Request().Context(), p, req.MemberID, req.ServiceID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// ConfirmCheckout handles POST /v1/payments/confirm.  The provider (or
// the hosted checkout page) calls back with the session reference; the
// endpoint is idempotent for already confirmed sessions.
func (h *PaymentHandler) ConfirmCheckout(c echo.Context) error {
	ref := c.QueryParam("session_ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_ref is required"})
	}
	purchase, err := h.Payments.ConfirmCheckout(c.Request().Context(), ref)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}

// FailCheckout handles POST /v1/payments/fail.
func (h *PaymentHandler) FailCheckout(c echo.Context) error {
	ref := c.QueryParam("session_ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_ref is required"})
	}
	if err := h.Payments.FailCheckout(c.Request().Context(), ref); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTransactions handles GET /v1/members/:id/transactions.
func (h *PaymentHandler) ListTransactions(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	transactions, err := h.Payments.ListTransactions(c.Request().Context(), p, memberID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": transactions})
}

// GetTransaction handles GET /v1/transactions/:id.
func (h *PaymentHandler) GetTransaction(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	txn, err := h.Payments.GetTransaction(c.Request().Context(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}
