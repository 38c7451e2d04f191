// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a booking commits.  It
// carries enough denormalized detail for downstream consumers to log,
// notify or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	MemberID        uint64 `json:"member_id"`
	MemberName      string `json:"member_name"`
	AppointmentID   uint64 `json:"appointment_id"`
	ServiceName     string `json:"service_name"`
	LocationID      uint64 `json:"location_id"`
	LocationName    string `json:"location_name"`
	StartsAt        string `json:"starts_at"`
	EndsAt          string `json:"ends_at"`
	PurchaseID      uint64 `json:"purchase_id"`
	RemainingUses   int    `json:"remaining_uses"`
	SpacesRemaining int    `json:"spaces_remaining"`
	ConfirmedAt     string `json:"confirmed_at"`
}
