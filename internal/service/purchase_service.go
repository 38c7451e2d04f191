package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/andrea360/fitness-center-backend/internal/auth"
	"github.com/andrea360/fitness-center-backend/internal/model"
	"github.com/andrea360/fitness-center-backend/internal/repository"
)

// PurchaseService manages session bundles: recording purchases,
// debiting and crediting their use counters and answering entitlement
// queries.  Counter changes driven by reservations happen through the
// debit/credit helpers inside the reservation transaction; the
// standalone UseSession/RefundSession entry points exist for manual
// corrections by staff.
type PurchaseService struct {
	db        *sql.DB
	purchases *repository.PurchaseRepo
	members   *repository.MemberRepo
	services  *repository.ServiceRepo

	manualValidityDays int
	paidValidityMonths int
}

// NewPurchaseService constructs a PurchaseService.  The validity
// windows control how far in the future the expiry date of new
// purchases is set: manual recordings get manualValidityDays, checkout
// confirmed purchases get paidValidityMonths.
func NewPurchaseService(db *sql.DB, purchases *repository.PurchaseRepo, members *repository.MemberRepo, services *repository.ServiceRepo, manualValidityDays, paidValidityMonths int) *PurchaseService {
	if db == nil || purchases == nil || members == nil || services == nil {
		panic("nil dependency passed to NewPurchaseService")
	}
	return &PurchaseService{
		db:                 db,
		purchases:          purchases,
		members:            members,
		services:           services,
		manualValidityDays: manualValidityDays,
		paidValidityMonths: paidValidityMonths,
	}
}

// CreateManual records a purchase entered by staff at the front desk.
// The caller must be an admin or an employee of the member's location.
// The bundle starts with RemainingUses equal to quantity, the total
// price is quantity times the current service price, and the expiry is
// the manual validity window from today.
func (s *PurchaseService) CreateManual(ctx context.Context, p auth.Principal, memberID, serviceID uint64, quantity int) (*model.Purchase, error) {
	if p.IsMember() {
		return nil, Unauthorized("members cannot record purchases directly")
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, NotFound("member", memberID)
		}
		return nil, err
	}
	if !p.CanAccessLocation(member.LocationID) {
		return nil, Unauthorized("member %d belongs to another location", memberID)
	}
	expiry := expiryFromToday(time.Now(), s.manualValidityDays, 0)
	return s.create(ctx, member.ID, serviceID, quantity, nil, &expiry)
}

// CreatePaid records a purchase produced by a confirmed checkout
// session.  It is called by the payment flow after the provider
// reports success, so it performs no principal check.  The paid
// validity window applies and the price charged by the provider is
// stored as the bundle price.
func (s *PurchaseService) CreatePaid(ctx context.Context, memberID, serviceID uint64, quantity int, amountCents uint32) (*model.Purchase, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, NotFound("member", memberID)
		}
		return nil, err
	}
	expiry := expiryFromToday(time.Now(), 0, s.paidValidityMonths)
	return s.create(ctx, memberID, serviceID, quantity, &amountCents, &expiry)
}

func (s *PurchaseService) create(ctx context.Context, memberID, serviceID uint64, quantity int, amountCents *uint32, expiry *time.Time) (*model.Purchase, error) {
	if quantity <= 0 {
		return nil, Invalid("quantity must be positive")
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
	total := svc.PriceCents * uint32(quantity)
	if amountCents != nil {
		total = *amountCents
	}
	purchase := &model.Purchase{
		MemberID:        memberID,
		ServiceID:       serviceID,
		Quantity:        quantity,
		RemainingUses:   quantity,
		TotalPriceCents: total,
		PurchaseDate:    time.Now().UTC(),
		ExpiryDate:      expiry,
		Status:          model.PurchaseActive,
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// expiryFromToday computes the last usable day for a new purchase:
// today at UTC midnight plus the given number of days or months.
func expiryFromToday(now time.Time, days, months int) time.Time {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, months, days)
}

// UseSession manually consumes one session from a purchase, for staff
// corrections such as recording an attendance taken outside the
// booking flow.  The row is locked for the duration of the update so
// concurrent reservation traffic on the same purchase serializes.
func (s *PurchaseService) UseSession(ctx context.Context, p auth.Principal, purchaseID uint64) (*model.Purchase, error) {
	if p.IsMember() {
		return nil, Unauthorized("members cannot adjust session counters directly")
	}
	return s.adjust(ctx, purchaseID, func(pu *model.Purchase) error {
		remaining, status, err := applyUse(pu.RemainingUses)
		if err != nil {
			return err
		}
		pu.RemainingUses = remaining
		pu.Status = status
		return nil
	})
}

// RefundSession manually returns one session to a purchase.  The
// counter is clamped at the purchased quantity.
func (s *PurchaseService) RefundSession(ctx context.Context, p auth.Principal, purchaseID uint64) (*model.Purchase, error) {
	if p.IsMember() {
		return nil, Unauthorized("members cannot adjust session counters directly")
	}
	return s.adjust(ctx, purchaseID, func(pu *model.Purchase) error {
		pu.RemainingUses, pu.Status = applyRefund(pu.RemainingUses, pu.Quantity)
		return nil
	})
}

// Cancel voids an ACTIVE purchase so its remaining sessions can no
// longer be booked.  Exhausted, expired or already cancelled bundles
// are left alone.
func (s *PurchaseService) Cancel(ctx context.Context, p auth.Principal, purchaseID uint64) (*model.Purchase, error) {
	if p.IsMember() {
		return nil, Unauthorized("members cannot cancel purchases")
	}
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, NotFound("purchase", purchaseID)
		}
		return nil, err
	}
	if purchase.Status != model.PurchaseActive {
		return nil, InvalidState("purchase %d is %s and cannot be cancelled", purchaseID, purchase.Status)
	}
	if err := s.purchases.UpdateStatus(ctx, purchaseID, model.PurchaseCancelled); err != nil {
		return nil, err
	}
	purchase.Status = model.PurchaseCancelled
	return purchase, nil
}

func (s *PurchaseService) adjust(ctx context.Context, purchaseID uint64, mutate func(*model.Purchase) error) (*model.Purchase, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	purchase, err := s.purchases.GetForUpdateTx(ctx, tx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, NotFound("purchase", purchaseID)
		}
		return nil, err
	}
	if err := mutate(purchase); err != nil {
		return nil, err
	}
	if err := s.purchases.UpdateUsesTx(ctx, tx, purchase.ID, purchase.RemainingUses, purchase.Status); err != nil {
		if errors.Is(err, repository.ErrCounterBound) {
			return nil, Conflict("purchase %d counter moved concurrently", purchaseID)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return purchase, nil
}

// debitPurchaseTx consumes one session inside the caller's
// transaction.  The purchase must already be locked via
// GetForUpdateTx.  Used by the reservation engine so the debit commits
// or rolls back together with the reservation row.
func debitPurchaseTx(ctx context.Context, tx *sql.Tx, repo *repository.PurchaseRepo, purchase *model.Purchase) error {
	remaining, status, err := applyUse(purchase.RemainingUses)
	if err != nil {
		return err
	}
	if err := repo.UpdateUsesTx(ctx, tx, purchase.ID, remaining, status); err != nil {
		if errors.Is(err, repository.ErrCounterBound) {
			return Conflict("purchase %d counter moved concurrently", purchase.ID)
		}
		return err
	}
	purchase.RemainingUses = remaining
	purchase.Status = status
	return nil
}

// creditPurchaseTx returns one session inside the caller's
// transaction, clamped at the purchased quantity.
func creditPurchaseTx(ctx context.Context, tx *sql.Tx, repo *repository.PurchaseRepo, purchase *model.Purchase) error {
	remaining, status := applyRefund(purchase.RemainingUses, purchase.Quantity)
	if err := repo.UpdateUsesTx(ctx, tx, purchase.ID, remaining, status); err != nil {
		if errors.Is(err, repository.ErrCounterBound) {
			return Conflict("purchase %d counter moved concurrently", purchase.ID)
		}
		return err
	}
	purchase.RemainingUses = remaining
	purchase.Status = status
	return nil
}

// GetByID returns one purchase, enforcing that members only see their
// own bundles and employees only those of members at their location.
func (s *PurchaseService) GetByID(ctx context.Context, p auth.Principal, purchaseID uint64) (*model.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, NotFound("purchase", purchaseID)
		}
		return nil, err
	}
	if err := s.checkMemberAccess(ctx, p, purchase.MemberID); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ListByMember returns a member's purchases, optionally narrowed to a
// status or to usable bundles only.  A member ID that matches no row
// yields an empty list rather than an error, so dashboards of newly
// registered members render without special cases.
func (s *PurchaseService) ListByMember(ctx context.Context, p auth.Principal, memberID uint64, status string, activeOnly bool) ([]model.Purchase, error) {
	if err := s.checkMemberAccess(ctx, p, memberID); err != nil {
		return nil, err
	}
	switch {
	case activeOnly:
		return s.purchases.ListActiveByMember(ctx, memberID)
	case status != "":
		return s.purchases.ListByMemberAndStatus(ctx, memberID, status)
	default:
		return s.purchases.ListByMember(ctx, memberID)
	}
}

// ListByMemberAndService returns a member's purchases for one service.
func (s *PurchaseService) ListByMemberAndService(ctx context.Context, p auth.Principal, memberID, serviceID uint64) ([]model.Purchase, error) {
	if err := s.checkMemberAccess(ctx, p, memberID); err != nil {
		return nil, err
	}
	return s.purchases.ListByMemberAndService(ctx, memberID, serviceID)
}

// HasUsableForService reports whether the member holds at least one
// bundle that could back a reservation for the service right now.
func (s *PurchaseService) HasUsableForService(ctx context.Context, p auth.Principal, memberID, serviceID uint64) (bool, error) {
	if err := s.checkMemberAccess(ctx, p, memberID); err != nil {
		return false, err
	}
	return s.purchases.HasUsableForService(ctx, memberID, serviceID)
}

// checkMemberAccess resolves the owning member's location so employee
// principals can be scoped; admins pass and members pass only for
// themselves.
func (s *PurchaseService) checkMemberAccess(ctx context.Context, p auth.Principal, memberID uint64) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsMember() {
		if !p.CanAccessMember(memberID) {
			return Unauthorized("cannot access another member's purchases")
		}
		return nil
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			// Lists for unknown members come back empty; the location
			// scope cannot be checked so deny nothing and let the
			// query return no rows.
			return nil
		}
		return err
	}
	if !p.CanAccessLocation(member.LocationID) {
		return Unauthorized("member %d belongs to another location", memberID)
	}
	return nil
}
