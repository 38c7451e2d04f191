package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

func datePtr(t time.Time) *time.Time { return &t }

func usablePurchase() *model.Purchase {
	return &model.Purchase{
		ID:            7,
		MemberID:      3,
		ServiceID:     5,
		Quantity:      10,
		RemainingUses: 4,
		Status:        model.PurchaseActive,
		ExpiryDate:    datePtr(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
}

func TestCheckPurchaseUsable(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("usable", func(t *testing.T) {
		assert.NoError(t, checkPurchaseUsable(usablePurchase(), 3, 5, now))
	})

	t.Run("wrong member", func(t *testing.T) {
		err := checkPurchaseUsable(usablePurchase(), 99, 5, now)
		require.Error(t, err)
		var ue *UnauthorizedError
		assert.ErrorAs(t, err, &ue)
	})

	t.Run("wrong service", func(t *testing.T) {
		err := checkPurchaseUsable(usablePurchase(), 3, 8, now)
		require.Error(t, err)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("used purchase", func(t *testing.T) {
		p := usablePurchase()
		p.Status = model.PurchaseUsed
		p.RemainingUses = 0
		err := checkPurchaseUsable(p, 3, 5, now)
		var se *InvalidStateError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("exhausted counter", func(t *testing.T) {
		p := usablePurchase()
		p.RemainingUses = 0
		err := checkPurchaseUsable(p, 3, 5, now)
		var se *InvalidStateError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("expired yesterday", func(t *testing.T) {
		p := usablePurchase()
		p.ExpiryDate = datePtr(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC))
		err := checkPurchaseUsable(p, 3, 5, now)
		var se *InvalidStateError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("expiring today is still usable", func(t *testing.T) {
		p := usablePurchase()
		p.ExpiryDate = datePtr(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
		assert.NoError(t, checkPurchaseUsable(p, 3, 5, now))
	})

	t.Run("no expiry never expires", func(t *testing.T) {
		p := usablePurchase()
		p.ExpiryDate = nil
		assert.NoError(t, checkPurchaseUsable(p, 3, 5, now))
	})
}

func TestApplyUse(t *testing.T) {
	t.Run("normal decrement stays active", func(t *testing.T) {
		remaining, status, err := applyUse(4)
		require.NoError(t, err)
		assert.Equal(t, 3, remaining)
		assert.Equal(t, model.PurchaseActive, status)
	})

	t.Run("last session flips to used", func(t *testing.T) {
		remaining, status, err := applyUse(1)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
		assert.Equal(t, model.PurchaseUsed, status)
	})

	t.Run("use at zero fails", func(t *testing.T) {
		_, _, err := applyUse(0)
		var se *InvalidStateError
		assert.ErrorAs(t, err, &se)
	})
}

func TestApplyRefund(t *testing.T) {
	t.Run("refund reactivates used purchase", func(t *testing.T) {
		remaining, status := applyRefund(0, 10)
		assert.Equal(t, 1, remaining)
		assert.Equal(t, model.PurchaseActive, status)
	})

	t.Run("refund clamps at quantity", func(t *testing.T) {
		remaining, status := applyRefund(10, 10)
		assert.Equal(t, 10, remaining)
		assert.Equal(t, model.PurchaseActive, status)
	})
}
