package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// ErrAppointmentNotFound is returned when an appointment lookup matches no row.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentRepo provides persistence for the 'appointments' table.
// current_capacity mirrors the number of counter-holding reservations
// and is only mutated through UpdateCapacityTx while the caller holds
// the row lock taken by GetForUpdateTx.
type AppointmentRepo struct{ db *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const appointmentColumns = `id, service_id, member_id, location_id, created_by, start_time, end_time,
	max_capacity, current_capacity, status, notes, created_at, updated_at`

// Create inserts an appointment and populates its generated ID.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (service_id, member_id, location_id, created_by, start_time, end_time,
		   max_capacity, current_capacity, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ServiceID, a.MemberID, a.LocationID, a.CreatedBy, a.StartTime, a.EndTime,
		a.MaxCapacity, a.CurrentCapacity, a.Status, a.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches one appointment, translating a miss to ErrAppointmentNotFound.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (*model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetForUpdateTx fetches an appointment within the transaction while
// taking a row lock (SELECT ... FOR UPDATE).  The capacity check and
// the subsequent increment happen under this lock, which closes the
// check-then-act race between concurrent reservation attempts.
func (r *AppointmentRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Appointment, error) {
	a, err := scanAppointment(tx.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateCapacityTx applies a relative capacity change inside the
// transaction.  The WHERE guard keeps current_capacity within
// 0..max_capacity at the database level; a rejected write surfaces as
// ErrCounterBound.
func (r *AppointmentRepo) UpdateCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE appointments SET current_capacity = current_capacity + ?
		 WHERE id = ? AND current_capacity + ? BETWEEN 0 AND max_capacity`,
		delta, id, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCounterBound
	}
	return nil
}

// Update writes the mutable appointment fields (service, times, status, notes).
func (r *AppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET service_id=?, start_time=?, end_time=?, status=?, notes=? WHERE id=?`,
		a.ServiceID, a.StartTime, a.EndTime, a.Status, a.Notes, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// Delete removes an appointment.  The caller must have verified that
// no reservations hold capacity on it.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ExistsMemberOverlap reports whether the member already has a
// non-cancelled appointment starting inside [from, to).  Used for the
// double-booking rule, which blocks from 30 minutes before the start
// until 30 minutes after the session ends.
func (r *AppointmentRepo) ExistsMemberOverlap(ctx context.Context, memberID uint64, from, to time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE member_id=? AND status <> ? AND start_time >= ? AND start_time < ?`,
		memberID, model.AppointmentCancelled, from, to).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountLocationOverlap counts non-cancelled appointments at the
// location whose [start_time, end_time) interval overlaps [start, end).
// Used for the group-service location-conflict rule.
func (r *AppointmentRepo) CountLocationOverlap(ctx context.Context, locationID uint64, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE location_id=? AND status <> ? AND start_time < ? AND end_time > ?`,
		locationID, model.AppointmentCancelled, end, start).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListUpcomingScheduledByLocation returns SCHEDULED appointments at a
// location starting after the given instant, soonest first.
// Availability queries filter the result further.
func (r *AppointmentRepo) ListUpcomingScheduledByLocation(ctx context.Context, locationID uint64, after time.Time) ([]model.Appointment, error) {
	return r.list(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE location_id=? AND start_time > ? AND status=? ORDER BY start_time",
		locationID, after, model.AppointmentScheduled)
}

// ListByMember returns all appointments created for a member.
func (r *AppointmentRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.Appointment, error) {
	return r.list(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE member_id=? ORDER BY start_time", memberID)
}

// ListByLocation returns all appointments at a location.
func (r *AppointmentRepo) ListByLocation(ctx context.Context, locationID uint64) ([]model.Appointment, error) {
	return r.list(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE location_id=? ORDER BY start_time", locationID)
}

// ListByLocationAndRange returns appointments at a location starting
// inside [from, to].
func (r *AppointmentRepo) ListByLocationAndRange(ctx context.Context, locationID uint64, from, to time.Time) ([]model.Appointment, error) {
	return r.list(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE location_id=? AND start_time BETWEEN ? AND ? ORDER BY start_time",
		locationID, from, to)
}

func (r *AppointmentRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAppointment(row scanner) (*model.Appointment, error) {
	var (
		a         model.Appointment
		createdBy sql.NullInt64
		notes     sql.NullString
	)
	err := row.Scan(&a.ID, &a.ServiceID, &a.MemberID, &a.LocationID, &createdBy, &a.StartTime, &a.EndTime,
		&a.MaxCapacity, &a.CurrentCapacity, &a.Status, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		id := uint64(createdBy.Int64)
		a.CreatedBy = &id
	}
	if notes.Valid {
		a.Notes = notes.String
	}
	return &a, nil
}
