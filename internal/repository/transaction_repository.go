package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

// ErrTransactionNotFound is returned when a transaction lookup matches no row.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepo provides persistence for the 'transactions' table,
// which records payment attempts against the checkout provider.  A
// transaction starts PENDING when the checkout session is created and
// moves to SUCCESS (linked to the purchase it produced) or FAILED when
// the provider reports the outcome.
type TransactionRepo struct{ db *sql.DB }

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = "id, member_id, service_id, quantity, amount_cents, session_ref, status, payment_method, purchase_id, payment_date, created_at, updated_at"

// Create inserts a new PENDING transaction and populates the generated ID.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (member_id, service_id, quantity, amount_cents, session_ref, status, payment_method) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.MemberID, t.ServiceID, t.Quantity, t.AmountCents, t.SessionRef, t.Status, t.PaymentMethod)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetBySessionRef looks a transaction up by its provider session
// reference, which is what the confirmation callback carries.
func (r *TransactionRepo) GetBySessionRef(ctx context.Context, ref string) (*model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE session_ref=?", ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID fetches one transaction by primary key.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// MarkSuccess moves a transaction to SUCCESS, links the purchase the
// payment produced and stamps the payment date.  The status guard
// makes confirmation idempotent: a second callback for the same
// session finds no PENDING row and reports ErrTransactionNotFound.
func (r *TransactionRepo) MarkSuccess(ctx context.Context, id, purchaseID uint64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET status=?, purchase_id=?, payment_date=UTC_TIMESTAMP() WHERE id=? AND status=?",
		model.TransactionSuccess, purchaseID, id, model.TransactionPending)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// MarkFailed moves a PENDING transaction to FAILED.
func (r *TransactionRepo) MarkFailed(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET status=? WHERE id=? AND status=?",
		model.TransactionFailed, id, model.TransactionPending)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ListByMember returns a member's transactions, newest first.
func (r *TransactionRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE member_id=? ORDER BY created_at DESC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		t           model.Transaction
		purchaseID  sql.NullInt64
		paymentDate sql.NullTime
	)
	err := row.Scan(&t.ID, &t.MemberID, &t.ServiceID, &t.Quantity, &t.AmountCents,
		&t.SessionRef, &t.Status, &t.PaymentMethod, &purchaseID, &paymentDate,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if purchaseID.Valid {
		v := uint64(purchaseID.Int64)
		t.PurchaseID = &v
	}
	if paymentDate.Valid {
		d := paymentDate.Time
		t.PaymentDate = &d
	}
	return &t, nil
}
