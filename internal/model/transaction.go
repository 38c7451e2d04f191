package model

import "time"

// Transaction status values stored in transactions.status.
const (
	TransactionPending = "PENDING"
	TransactionSuccess = "SUCCESS"
	TransactionFailed  = "FAILED"
)

// Transaction records one checkout attempt with the external payment
// provider.  A pending row is written when the session is created and
// flipped to SUCCESS on confirmation, at which point the linked
// purchase is granted.  SessionRef is the provider's opaque session
// identifier.
type Transaction struct {
	ID            uint64     // transactions.id
	MemberID      uint64     // transactions.member_id
	ServiceID     uint64     // transactions.service_id
	Quantity      int        // transactions.quantity
	AmountCents   uint32     // transactions.amount_cents
	SessionRef    string     // transactions.session_ref (unique)
	Status        string     // transactions.status
	PaymentMethod string     // transactions.payment_method
	PurchaseID    *uint64    // transactions.purchase_id (nullable, set on confirm)
	PaymentDate   *time.Time // transactions.payment_date (nullable)
	CreatedAt     time.Time  // transactions.created_at
	UpdatedAt     time.Time  // transactions.updated_at
}
