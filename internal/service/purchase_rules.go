package service

import (
	"time"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// checkPurchaseUsable verifies that a purchase may back a reservation
// for the given member and service: the member owns it, it is for the
// right service, it is ACTIVE with sessions remaining and its expiry
// date has not passed.  It returns nil when the purchase is usable.
func checkPurchaseUsable(p *model.Purchase, memberID, serviceID uint64, now time.Time) error {
	if p.MemberID != memberID {
		return Unauthorized("purchase %d does not belong to member %d", p.ID, memberID)
	}
	if p.ServiceID != serviceID {
		return Invalid("purchase %d is for a different service", p.ID)
	}
	if p.Status != model.PurchaseActive {
		return InvalidState("purchase %d is %s", p.ID, p.Status)
	}
	if p.RemainingUses <= 0 {
		return InvalidState("purchase %d has no remaining sessions", p.ID)
	}
	if p.Expired(now) {
		return InvalidState("purchase %d expired on %s", p.ID, p.ExpiryDate.Format("2006-01-02"))
	}
	return nil
}

// applyUse computes the purchase state after consuming one session.
// The purchase flips to USED exactly when the counter reaches zero.
func applyUse(remaining int) (newRemaining int, newStatus string, err error) {
	if remaining <= 0 {
		return 0, "", InvalidState("no remaining sessions to consume")
	}
	newRemaining = remaining - 1
	newStatus = model.PurchaseActive
	if newRemaining == 0 {
		newStatus = model.PurchaseUsed
	}
	return newRemaining, newStatus, nil
}

// applyRefund computes the purchase state after returning one session.
// The counter is clamped at the original quantity so repeated refunds
// can never mint sessions that were not purchased, and a USED purchase
// becomes ACTIVE again as soon as it has at least one session.
func applyRefund(remaining, quantity int) (newRemaining int, newStatus string) {
	newRemaining = remaining + 1
	if newRemaining > quantity {
		newRemaining = quantity
	}
	newStatus = model.PurchaseActive
	return newRemaining, newStatus
}
