package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// ErrPurchaseNotFound is returned when a purchase lookup matches no row.
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseRepo provides persistence for the 'purchases' table.  The
// remaining_uses counter is the entitlement ledger: it is only ever
// mutated through UpdateUsesTx while the caller holds the row lock
// taken by GetForUpdateTx, inside the same transaction that writes the
// reservation.  The SQL guard in UpdateUsesTx is a second line of
// defense; it rejects writes that would leave the counter outside
// 0..quantity.
type PurchaseRepo struct{ db *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

const purchaseColumns = `id, member_id, service_id, quantity, remaining_uses, total_price_cents,
	purchase_date, expiry_date, status, created_at, updated_at`

// Create inserts a purchase and populates its generated ID.
func (r *PurchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases (member_id, service_id, quantity, remaining_uses, total_price_cents,
		   purchase_date, expiry_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.MemberID, p.ServiceID, p.Quantity, p.RemainingUses, p.TotalPriceCents,
		p.PurchaseDate, p.ExpiryDate, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches one purchase, translating a miss to ErrPurchaseNotFound.
func (r *PurchaseRepo) GetByID(ctx context.Context, id uint64) (*model.Purchase, error) {
	p, err := scanPurchase(r.db.QueryRowContext(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetForUpdateTx fetches a purchase within the transaction while taking
// a row lock (SELECT ... FOR UPDATE).  Callers re-validate entitlement
// under this lock before mutating remaining_uses so concurrent
// reservations against the same purchase serialize instead of
// double-spending a session.
func (r *PurchaseRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Purchase, error) {
	p, err := scanPurchase(tx.QueryRowContext(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE id=? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateUsesTx writes a new remaining_uses value and status inside the
// transaction.  The WHERE guard enforces 0 <= remaining_uses <= quantity
// at the database level; a rejected write surfaces as ErrCounterBound.
func (r *PurchaseRepo) UpdateUsesTx(ctx context.Context, tx *sql.Tx, id uint64, remainingUses int, status string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE purchases SET remaining_uses=?, status=? WHERE id=? AND ? BETWEEN 0 AND quantity",
		remainingUses, status, id, remainingUses)
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

// UpdateStatus sets only the purchase status (used for EXPIRED and
// CANCELLED transitions outside the reservation path).
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE purchases SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPurchaseNotFound
	}
	return nil
}

// ListByMember returns all purchases of a member, newest first.
func (r *PurchaseRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.Purchase, error) {
	return r.list(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE member_id=? ORDER BY created_at DESC", memberID)
}

// ListByMemberAndService returns a member's purchases for one service.
func (r *PurchaseRepo) ListByMemberAndService(ctx context.Context, memberID, serviceID uint64) ([]model.Purchase, error) {
	return r.list(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE member_id=? AND service_id=? ORDER BY created_at DESC",
		memberID, serviceID)
}

// ListByMemberAndStatus returns a member's purchases filtered by status.
func (r *PurchaseRepo) ListByMemberAndStatus(ctx context.Context, memberID uint64, status string) ([]model.Purchase, error) {
	return r.list(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE member_id=? AND status=? ORDER BY created_at DESC",
		memberID, status)
}

// ListActiveByMember returns ACTIVE purchases that still have uses
// left, i.e. the bundles a member can book with right now.
func (r *PurchaseRepo) ListActiveByMember(ctx context.Context, memberID uint64) ([]model.Purchase, error) {
	return r.list(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE member_id=? AND status=? AND remaining_uses > 0 ORDER BY created_at DESC",
		memberID, model.PurchaseActive)
}

// HasUsableForService reports whether the member holds an ACTIVE,
// unexpired purchase with remaining uses for the given service.  Backs
// the "available for current member" appointment query.
func (r *PurchaseRepo) HasUsableForService(ctx context.Context, memberID, serviceID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchases
		 WHERE member_id=? AND service_id=? AND status=? AND remaining_uses > 0
		   AND (expiry_date IS NULL OR expiry_date >= CURDATE())`,
		memberID, serviceID, model.PurchaseActive).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PurchaseRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPurchase(row scanner) (*model.Purchase, error) {
	var (
		p      model.Purchase
		expiry sql.NullTime
	)
	err := row.Scan(&p.ID, &p.MemberID, &p.ServiceID, &p.Quantity, &p.RemainingUses, &p.TotalPriceCents,
		&p.PurchaseDate, &expiry, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if expiry.Valid {
		t := expiry.Time
		p.ExpiryDate = &t
	}
	return &p, nil
}
