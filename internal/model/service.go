package model

import "time"

// Service describes a bookable offering such as a group class or a
// personal-training session.  DurationMinutes determines the end time
// of appointments created for the service, and MaxCapacity seeds the
// appointment's capacity counter.  Prices are stored in EUR cents.
//
// Fields:
//  ID              - primary key identifier.
//  Name            - display name of the service.
//  Description     - optional free-text description.
//  PriceCents      - price per session in EUR cents.
//  DurationMinutes - session length in minutes.
//  MaxCapacity     - how many members one appointment can hold.
//  IsActive        - whether the service can currently be booked.
//  CreatedBy       - user who created the service (nullable).
//  CreatedAt       - creation timestamp.
//  UpdatedAt       - last update timestamp.
type Service struct {
	ID              uint64    // services.id
	Name            string    // services.name
	Description     string    // services.description
	PriceCents      uint32    // services.price_cents
	DurationMinutes int       // services.duration_minutes
	MaxCapacity     int       // services.max_capacity
	IsActive        bool      // services.is_active
	CreatedBy       *uint64   // services.created_by (nullable)
	CreatedAt       time.Time // services.created_at
	UpdatedAt       time.Time // services.updated_at
}
