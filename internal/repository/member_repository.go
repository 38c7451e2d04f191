package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// ErrMemberNotFound is returned when a member lookup matches no row.
var ErrMemberNotFound = errors.New("member not found")

// MemberRepo provides persistence for the 'members' table.  Members
// are the owning side of purchases, appointments and reservations, so
// most service operations start by resolving the caller's member row.
type MemberRepo struct{ db *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = `id, user_id, location_id, first_name, last_name, email, phone,
	membership_start_date, membership_end_date, membership_status, notes, created_at, updated_at`

// Create inserts a member profile and populates its generated ID.
func (r *MemberRepo) Create(ctx context.Context, m *model.Member) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (user_id, location_id, first_name, last_name, email, phone,
		   membership_start_date, membership_end_date, membership_status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.LocationID, m.FirstName, m.LastName, m.Email, m.Phone,
		m.MembershipStart, m.MembershipEnd, m.MembershipStatus, m.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches one member, translating a miss to ErrMemberNotFound.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (*model.Member, error) {
	return r.getOne(ctx, "SELECT "+memberColumns+" FROM members WHERE id=?", id)
}

// GetByUserID resolves the member profile linked to a user credential
// record.  Principal resolution at login and all "current member"
// operations go through here.
func (r *MemberRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Member, error) {
	return r.getOne(ctx, "SELECT "+memberColumns+" FROM members WHERE user_id=?", userID)
}

// ListByLocation returns all members registered at a location.
func (r *MemberRepo) ListByLocation(ctx context.Context, locationID uint64) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE location_id=? ORDER BY last_name, first_name", locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// UpdateStatus sets the membership status of a member.
func (r *MemberRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE members SET membership_status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepo) getOne(ctx context.Context, query string, args ...interface{}) (*model.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanMember(row scanner) (*model.Member, error) {
	var (
		m          model.Member
		start, end sql.NullTime
		notes      sql.NullString
	)
	err := row.Scan(&m.ID, &m.UserID, &m.LocationID, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&start, &end, &m.MembershipStatus, &notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time
		m.MembershipStart = &t
	}
	if end.Valid {
		t := end.Time
		m.MembershipEnd = &t
	}
	if notes.Valid {
		m.Notes = notes.String
	}
	return &m, nil
}
