package model

import "time"

// Appointment status values stored in appointments.status.
const (
	AppointmentScheduled  = "SCHEDULED"
	AppointmentConfirmed  = "CONFIRMED"
	AppointmentInProgress = "IN_PROGRESS"
	AppointmentCompleted  = "COMPLETED"
	AppointmentCancelled  = "CANCELLED"
	AppointmentNoShow     = "NO_SHOW"
)

// Appointment is a scheduled occurrence of a service at a location.
// MaxCapacity is snapshotted from the service at creation time;
// CurrentCapacity counts confirmed reservations and is only ever
// changed by reservation create/cancel/delete inside the same
// transaction that writes the reservation row.  The invariant
// 0 <= CurrentCapacity <= MaxCapacity holds after every operation.
//
// Fields:
//  ID              - primary key identifier.
//  ServiceID       - service being held.
//  MemberID        - member the appointment was created for.
//  LocationID      - location where it takes place.
//  CreatedBy       - user who scheduled it (nullable).
//  StartTime       - when the appointment begins (UTC).
//  EndTime         - StartTime plus the service duration.
//  MaxCapacity     - capacity snapshot from the service.
//  CurrentCapacity - occupied slots (0..MaxCapacity).
//  Status          - one of the Appointment* constants.
//  Notes           - optional free-text notes.
//  CreatedAt/UpdatedAt - record timestamps.
type Appointment struct {
	ID              uint64    // appointments.id
	ServiceID       uint64    // appointments.service_id
	MemberID        uint64    // appointments.member_id
	LocationID      uint64    // appointments.location_id
	CreatedBy       *uint64   // appointments.created_by (nullable)
	StartTime       time.Time // appointments.start_time
	EndTime         time.Time // appointments.end_time
	MaxCapacity     int       // appointments.max_capacity
	CurrentCapacity int       // appointments.current_capacity
	Status          string    // appointments.status
	Notes           string    // appointments.notes
	CreatedAt       time.Time // appointments.created_at
	UpdatedAt       time.Time // appointments.updated_at
}

// AvailableSpaces is the capacity projection used by availability
// queries and the capacity endpoint.
func (a *Appointment) AvailableSpaces() int {
	return a.MaxCapacity - a.CurrentCapacity
}
