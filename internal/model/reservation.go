package model

import (
	"strings"
	"time"
)

// Reservation status values stored in reservations.status.  A
// reservation starts CONFIRMED and moves to exactly one of CANCELLED,
// ATTENDED or NO_SHOW.  ATTENDED and NO_SHOW are terminal markers that
// keep the counters the reservation holds; CANCELLED releases them.
// WAITING_LIST is declared for schema compatibility but no transition
// currently produces it.
const (
	ReservationConfirmed   = "CONFIRMED"
	ReservationCancelled   = "CANCELLED"
	ReservationAttended    = "ATTENDED"
	ReservationNoShow      = "NO_SHOW"
	ReservationWaitingList = "WAITING_LIST"
)

// ParseReservationStatus normalizes a client-supplied status string to
// one of the declared constants.  It reports false for anything else.
func ParseReservationStatus(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case ReservationConfirmed:
		return ReservationConfirmed, true
	case ReservationCancelled:
		return ReservationCancelled, true
	case ReservationAttended:
		return ReservationAttended, true
	case ReservationNoShow:
		return ReservationNoShow, true
	case ReservationWaitingList:
		return ReservationWaitingList, true
	}
	return "", false
}

// ReservationHoldsCounters reports whether a reservation in the given
// status is holding one unit of appointment capacity and one purchase
// use.  CANCELLED reservations already released their counters, so
// deleting one must not refund again.
func ReservationHoldsCounters(status string) bool {
	switch status {
	case ReservationConfirmed, ReservationAttended, ReservationNoShow:
		return true
	}
	return false
}

// Reservation binds one purchase-use to one appointment slot for one
// member.  Exactly one non-cancelled reservation may exist per
// (member, appointment) pair.
//
// Fields:
//  ID            - primary key identifier.
//  MemberID      - member who booked.
//  AppointmentID - appointment being attended.
//  PurchaseID    - purchase the session is debited from.
//  Status        - one of the Reservation* constants.
//  Notes         - optional free-text notes.
//  CreatedAt/UpdatedAt - record timestamps.
type Reservation struct {
	ID            uint64    // reservations.id
	MemberID      uint64    // reservations.member_id
	AppointmentID uint64    // reservations.appointment_id
	PurchaseID    uint64    // reservations.purchase_id
	Status        string    // reservations.status
	Notes         string    // reservations.notes
	CreatedAt     time.Time // reservations.created_at
	UpdatedAt     time.Time // reservations.updated_at
}
