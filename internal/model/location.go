package model

import "time"

// Location is a physical fitness-center site.  Members and employees
// belong to exactly one location; services are offered at one or more
// locations via the service_locations join table.
type Location struct {
	ID        uint64    // locations.id
	Name      string    // locations.name
	Address   string    // locations.address
	CreatedAt time.Time // locations.created_at
}
