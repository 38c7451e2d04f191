package model

import "time"

// Purchase status values stored in purchases.status.  A purchase
// becomes USED exactly when a use-decrement brings RemainingUses to
// zero; a later refund returns it to ACTIVE.
const (
	PurchaseActive    = "ACTIVE"
	PurchaseUsed      = "USED"
	PurchaseExpired   = "EXPIRED"
	PurchaseCancelled = "CANCELLED"
)

// Purchase is an entitlement bundle: a member buys Quantity sessions
// of a service and consumes them one reservation at a time through
// RemainingUses.  The invariant 0 <= RemainingUses <= Quantity holds
// after every operation; RemainingUses only changes via reservation
// create/cancel/delete/swap or an explicit ledger call.
//
// Fields:
//  ID              - primary key identifier.
//  MemberID        - owning member.
//  ServiceID       - service the bundle is valid for.
//  Quantity        - number of sessions originally purchased.
//  RemainingUses   - unconsumed sessions (0..Quantity).
//  TotalPriceCents - price paid for the bundle in EUR cents.
//  PurchaseDate    - day the purchase was made.
//  ExpiryDate      - last day the bundle may be used (nullable).
//  Status          - one of the Purchase* constants.
//  CreatedAt/UpdatedAt - record timestamps.
type Purchase struct {
	ID              uint64     // purchases.id
	MemberID        uint64     // purchases.member_id
	ServiceID       uint64     // purchases.service_id
	Quantity        int        // purchases.quantity
	RemainingUses   int        // purchases.remaining_uses
	TotalPriceCents uint32     // purchases.total_price_cents
	PurchaseDate    time.Time  // purchases.purchase_date
	ExpiryDate      *time.Time // purchases.expiry_date (nullable)
	Status          string     // purchases.status
	CreatedAt       time.Time  // purchases.created_at
	UpdatedAt       time.Time  // purchases.updated_at
}

// Expired reports whether the purchase's expiry date lies strictly
// before the given day.  Purchases without an expiry never expire.
func (p *Purchase) Expired(now time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return p.ExpiryDate.Before(today)
}
