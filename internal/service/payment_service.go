package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrea360/fitness-center-backend/internal/auth"
	"github.com/andrea360/fitness-center-backend/internal/model"
	"github.com/andrea360/fitness-center-backend/internal/repository"
)

// CheckoutRequest is what the payment provider needs to open a
// session: the line item being sold and where to send the payer
// afterwards.
type CheckoutRequest struct {
	MemberID    uint64
	ServiceName string
	Quantity    int
	AmountCents uint32
	SessionRef  string
}

// CheckoutSession is the provider's answer: the reference under which
// the payment proceeds and the URL the payer completes it at.
type CheckoutSession struct {
	Ref string `json:"session_ref"`
	URL string `json:"checkout_url"`
}

// CheckoutProvider opens payment sessions with an external processor.
// The production implementation talks to the configured provider; the
// hosted variant below redirects to a local confirmation page and is
// used in development.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
}

// HostedCheckout is a provider that completes payments on a page
// served by this application.  Confirmation arrives through the
// /payments/confirm callback exactly as it would from an external
// processor.
type HostedCheckout struct {
	BaseURL string
}

func (h *HostedCheckout) CreateSession(_ context.Context, req CheckoutRequest) (CheckoutSession, error) {
	return CheckoutSession{
		Ref: req.SessionRef,
		URL: fmt.Sprintf("%s/checkout/%s", h.BaseURL, req.SessionRef),
	}, nil
}

// PaymentService sells session bundles through a checkout provider.
// StartCheckout records a PENDING transaction and opens the provider
// session; ConfirmCheckout turns a successful session into an ACTIVE
// purchase with the paid validity window.
type PaymentService struct {
	transactions *repository.TransactionRepo
	members      *repository.MemberRepo
	services     *repository.ServiceRepo
	purchases    *PurchaseService
	provider     CheckoutProvider
}

func NewPaymentService(transactions *repository.TransactionRepo, members *repository.MemberRepo, services *repository.ServiceRepo, purchases *PurchaseService, provider CheckoutProvider) *PaymentService {
	if transactions == nil || members == nil || services == nil || purchases == nil || provider == nil {
		panic("nil dependency passed to NewPaymentService")
	}
	return &PaymentService{
		transactions: transactions,
		members:      members,
		services:     services,
		purchases:    purchases,
		provider:     provider,
	}
}

// StartCheckout opens a payment session for quantity sessions of a
// service.  Members buy for themselves; staff may start a checkout on
// a member's behalf.  The transaction is recorded PENDING under a
// fresh session reference before the provider is called, so a crash
// between the two leaves an orphan PENDING row rather than an
// untracked payment.
func (s *PaymentService) StartCheckout(ctx context.Context, p auth.Principal, memberID, serviceID uint64, quantity int) (*CheckoutSession, error) {
	if quantity <= 0 {
		return nil, Invalid("quantity must be positive")
	}
	if p.IsMember() && !p.CanAccessMember(memberID) {
		return nil, Unauthorized("members can only buy for themselves")
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, NotFound("member", memberID)
		}
		return nil, err
	}
	if p.IsEmployee() && !p.CanAccessLocation(member.LocationID) {
		return nil, Unauthorized("member %d belongs to another location", memberID)
	}
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, NotFound("service", serviceID)
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, InvalidState("service %d is not active", serviceID)
	}

	amount := svc.PriceCents * uint32(quantity)
	ref := uuid.NewString()
	txn := &model.Transaction{
		MemberID:      member.ID,
		ServiceID:     svc.ID,
		Quantity:      quantity,
		AmountCents:   amount,
		SessionRef:    ref,
		Status:        model.TransactionPending,
		PaymentMethod: "CARD",
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, err
	}
	session, err := s.provider.CreateSession(ctx, CheckoutRequest{
		MemberID:    member.ID,
		ServiceName: svc.Name,
		Quantity:    quantity,
		AmountCents: amount,
		SessionRef:  ref,
	})
	if err != nil {
		if markErr := s.transactions.MarkFailed(ctx, txn.ID); markErr != nil {
			return nil, markErr
		}
		return nil, Conflict("checkout session could not be opened: %v", err)
	}
	return &session, nil
}

// ConfirmCheckout finalizes a session the provider reports as paid:
// the purchase is created with the paid validity window and the
// transaction moves to SUCCESS linked to it.  A session that was
// already confirmed returns the existing outcome, so provider retries
// do not mint extra bundles.
func (s *PaymentService) ConfirmCheckout(ctx context.Context, sessionRef string) (*model.Purchase, error) {
	txn, err := s.transactions.GetBySessionRef(ctx, sessionRef)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, &NotFoundError{Entity: "checkout session"}
		}
		return nil, err
	}
	switch txn.Status {
	case model.TransactionSuccess:
		if txn.PurchaseID == nil {
			return nil, InvalidState("session %s confirmed without a purchase", sessionRef)
		}
		return s.purchases.purchases.GetByID(ctx, *txn.PurchaseID)
	case model.TransactionFailed:
		return nil, InvalidState("session %s already failed", sessionRef)
	}

	purchase, err := s.purchases.CreatePaid(ctx, txn.MemberID, txn.ServiceID, txn.Quantity, txn.AmountCents)
	if err != nil {
		return nil, err
	}
	if err := s.transactions.MarkSuccess(ctx, txn.ID, purchase.ID); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			// A concurrent confirmation won the status guard; its
			// purchase stands and ours should not.
			return nil, Conflict("session %s was confirmed concurrently", sessionRef)
		}
		return nil, err
	}
	return purchase, nil
}

// FailCheckout records that the provider reported the session as
// failed or abandoned.
func (s *PaymentService) FailCheckout(ctx context.Context, sessionRef string) error {
	txn, err := s.transactions.GetBySessionRef(ctx, sessionRef)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return &NotFoundError{Entity: "checkout session"}
		}
		return err
	}
	if txn.Status != model.TransactionPending {
		return InvalidState("session %s is already %s", sessionRef, txn.Status)
	}
	return s.transactions.MarkFailed(ctx, txn.ID)
}

// ListTransactions returns a member's payment history.
func (s *PaymentService) ListTransactions(ctx context.Context, p auth.Principal, memberID uint64) ([]model.Transaction, error) {
	if err := s.purchases.checkMemberAccess(ctx, p, memberID); err != nil {
		return nil, err
	}
	return s.transactions.ListByMember(ctx, memberID)
}

// GetTransaction returns one transaction, subject to the same member
// access rules as the history listing.
func (s *PaymentService) GetTransaction(ctx context.Context, p auth.Principal, id uint64) (*model.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, NotFound("transaction", id)
		}
		return nil, err
	}
	if err := s.purchases.checkMemberAccess(ctx, p, txn.MemberID); err != nil {
		return nil, err
	}
	return txn, nil
}
