package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides persistence for the 'reservations' table.
// A reservation binds a member, an appointment and a purchase; its
// writes always happen inside the same transaction that adjusts the
// appointment and purchase counters, so every mutating method is a Tx
// variant.  Reads come in two shapes: the bare row for the state
// machine and ReservationDetail with joined display columns for list
// endpoints.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, member_id, appointment_id, purchase_id, status, notes, created_at, updated_at"

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID.  The caller must commit
// or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (member_id, appointment_id, purchase_id, status, notes) VALUES (?, ?, ?, ?, ?)",
		res.MemberID, res.AppointmentID, res.PurchaseID, res.Status, res.Notes)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	return tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=?", res.ID).
		Scan(&res.ID, &res.MemberID, &res.AppointmentID, &res.PurchaseID, &res.Status,
			&res.Notes, &res.CreatedAt, &res.UpdatedAt)
}

// GetByID fetches one reservation, translating a miss to ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetForUpdateTx fetches a reservation within the transaction while
// taking a row lock, so concurrent status transitions on the same
// reservation serialize and the cancel counter-reversal runs at most
// once.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ExistsActiveByMemberAndAppointmentTx reports whether the member
// already holds a non-cancelled reservation for the appointment.
// Runs inside the reservation transaction so the duplicate check sees
// rows written by concurrent committed transactions.
func (r *ReservationRepo) ExistsActiveByMemberAndAppointmentTx(ctx context.Context, tx *sql.Tx, memberID, appointmentID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE member_id=? AND appointment_id=? AND status <> ?",
		memberID, appointmentID, model.ReservationCancelled).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateTx writes status, purchase binding and notes within the transaction.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status=?, purchase_id=?, notes=? WHERE id=?",
		res.Status, res.PurchaseID, res.Notes, res.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// DeleteTx hard-deletes a reservation within the transaction.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	result, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ReservationDetail is a reservation joined with the member, service,
// location and appointment columns needed by list endpoints, so
// callers render a booking without issuing follow-up lookups.
type ReservationDetail struct {
	ID            uint64    `json:"id"`
	MemberID      uint64    `json:"member_id"`
	MemberName    string    `json:"member_name"`
	AppointmentID uint64    `json:"appointment_id"`
	PurchaseID    uint64    `json:"purchase_id"`
	ServiceName   string    `json:"service_name"`
	LocationID    uint64    `json:"location_id"`
	LocationName  string    `json:"location_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReservationFilter narrows List results.  Nil/zero fields are
// ignored; From and To bound the appointment start time.
type ReservationFilter struct {
	MemberID      *uint64
	AppointmentID *uint64
	LocationID    *uint64
	Status        *string
	From          *time.Time
	To            *time.Time
}

// List returns reservation details matching the filter, newest first.
// The WHERE clause is assembled from the filter the same way bulk IN
// queries are built elsewhere in this package.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]ReservationDetail, error) {
	query := `SELECT res.id, res.member_id, CONCAT(m.first_name, ' ', m.last_name),
	                 res.appointment_id, res.purchase_id, s.name,
	                 a.location_id, l.name, a.start_time, a.end_time,
	                 res.status, res.notes, res.created_at
	          FROM reservations res
	          JOIN members m ON m.id = res.member_id
	          JOIN appointments a ON a.id = res.appointment_id
	          JOIN services s ON s.id = a.service_id
	          JOIN locations l ON l.id = a.location_id
	          WHERE 1=1`
	args := make([]interface{}, 0, 6)
	if f.MemberID != nil {
		query += " AND res.member_id = ?"
		args = append(args, *f.MemberID)
	}
	if f.AppointmentID != nil {
		query += " AND res.appointment_id = ?"
		args = append(args, *f.AppointmentID)
	}
	if f.LocationID != nil {
		query += " AND a.location_id = ?"
		args = append(args, *f.LocationID)
	}
	if f.Status != nil {
		query += " AND res.status = ?"
		args = append(args, *f.Status)
	}
	if f.From != nil {
		query += " AND a.start_time >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		query += " AND a.start_time <= ?"
		args = append(args, *f.To)
	}
	query += " ORDER BY res.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var (
			d     ReservationDetail
			notes sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.MemberID, &d.MemberName, &d.AppointmentID, &d.PurchaseID,
			&d.ServiceName, &d.LocationID, &d.LocationName, &d.StartTime, &d.EndTime,
			&d.Status, &notes, &d.CreatedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			d.Notes = notes.String
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanReservation(row scanner) (*model.Reservation, error) {
	var (
		res   model.Reservation
		notes sql.NullString
	)
	err := row.Scan(&res.ID, &res.MemberID, &res.AppointmentID, &res.PurchaseID, &res.Status,
		&notes, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		res.Notes = notes.String
	}
	return &res, nil
}
