package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// ErrServiceNotFound is returned when a service lookup matches no row.
var ErrServiceNotFound = errors.New("service not found")

// ServiceRepo provides persistence for the 'services' table and the
// service_locations join table that records where each service is
// offered.
type ServiceRepo struct{ db *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceColumns = "id, name, description, price_cents, duration_minutes, max_capacity, is_active, created_by, created_at, updated_at"

// Create inserts a service and links it to the given locations.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service, locationIDs []uint64) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO services (name, description, price_cents, duration_minutes, max_capacity, is_active, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Description, s.PriceCents, s.DurationMinutes, s.MaxCapacity, s.IsActive, s.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	if len(locationIDs) == 0 {
		return nil
	}
	query := "INSERT INTO service_locations (service_id, location_id) VALUES "
	args := make([]interface{}, 0, len(locationIDs)*2)
	for i, lid := range locationIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, s.ID, lid)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches one service, translating a miss to ErrServiceNotFound.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (*model.Service, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+serviceColumns+" FROM services WHERE id=?", id)
	s, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OfferedAt reports whether the service is offered at the location,
// backing the "service available at resolved location" validation step.
func (r *ServiceRepo) OfferedAt(ctx context.Context, serviceID, locationID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM service_locations WHERE service_id=? AND location_id=?",
		serviceID, locationID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActive returns all active services ordered by name.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]model.Service, error) {
	return r.list(ctx, "SELECT "+serviceColumns+" FROM services WHERE is_active=1 ORDER BY name")
}

// ListByLocation returns active services offered at a location.
func (r *ServiceRepo) ListByLocation(ctx context.Context, locationID uint64) ([]model.Service, error) {
	const q = `SELECT s.id, s.name, s.description, s.price_cents, s.duration_minutes, s.max_capacity,
	                  s.is_active, s.created_by, s.created_at, s.updated_at
	           FROM services s
	           JOIN service_locations sl ON sl.service_id = s.id
	           WHERE sl.location_id = ? AND s.is_active = 1
	           ORDER BY s.name`
	return r.list(ctx, q, locationID)
}

func (r *ServiceRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Service, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...interface{}) error }

func scanService(row scanner) (*model.Service, error) {
	var (
		s         model.Service
		desc      sql.NullString
		createdBy sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.Name, &desc, &s.PriceCents, &s.DurationMinutes, &s.MaxCapacity,
		&s.IsActive, &createdBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		s.Description = desc.String
	}
	if createdBy.Valid {
		id := uint64(createdBy.Int64)
		s.CreatedBy = &id
	}
	return &s, nil
}
