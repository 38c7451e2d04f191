package model

import "time"

// Membership status values stored in members.membership_status.  Only
// ACTIVE members may create appointments or reservations.
const (
	MembershipActive         = "ACTIVE"
	MembershipInactive       = "INACTIVE"
	MembershipSuspended      = "SUSPENDED"
	MembershipExpired        = "EXPIRED"
	MembershipPendingPayment = "PENDING_PAYMENT"
	MembershipTrial          = "TRIAL"
)

// Member is the gym-member profile linked one-to-one with a User
// credential record.  A member belongs to exactly one location and is
// the owner of purchases, appointments and reservations.
//
// Fields:
//  ID                  - primary key identifier.
//  UserID              - linked users.id (unique).
//  LocationID          - home location of the member.
//  FirstName           - given name.
//  LastName            - family name.
//  Email               - contact email (denormalized from users).
//  Phone               - contact phone number.
//  MembershipStart     - first day of the membership period (nullable).
//  MembershipEnd       - last day of the membership period (nullable).
//  MembershipStatus    - one of the Membership* constants.
//  Notes               - optional free-text notes.
//  CreatedAt/UpdatedAt - record timestamps.
type Member struct {
	ID               uint64     // members.id
	UserID           uint64     // members.user_id
	LocationID       uint64     // members.location_id
	FirstName        string     // members.first_name
	LastName         string     // members.last_name
	Email            string     // members.email
	Phone            string     // members.phone
	MembershipStart  *time.Time // members.membership_start_date (nullable)
	MembershipEnd    *time.Time // members.membership_end_date (nullable)
	MembershipStatus string     // members.membership_status
	Notes            string     // members.notes
	CreatedAt        time.Time  // members.created_at
	UpdatedAt        time.Time  // members.updated_at
}

// FullName joins first and last name for display purposes.
func (m *Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	default:
		return m.FirstName + " " + m.LastName
	}
}
