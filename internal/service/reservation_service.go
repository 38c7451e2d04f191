package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/andrea360/fitness-center-backend/internal/auth"
	"github.com/andrea360/fitness-center-backend/internal/model"
	"github.com/andrea360/fitness-center-backend/internal/queue"
	"github.com/andrea360/fitness-center-backend/internal/repository"
)

// ReservationService is the booking engine.  Every mutation runs in a
// single transaction that writes the reservation row and adjusts the
// two counters it holds: one space of appointment capacity and one
// session of the backing purchase.  Rows are locked with FOR UPDATE in
// a fixed order (reservation, appointment, purchase) and all rules are
// re-checked under the locks, so two concurrent bookings of the last
// space cannot both commit.
type ReservationService struct {
	db           *sql.DB
	reservations *repository.ReservationRepo
	appointments *repository.AppointmentRepo
	purchases    *repository.PurchaseRepo
	members      *repository.MemberRepo
	services     *repository.ServiceRepo
	locations    *repository.LocationRepo

	// publish delivers the confirmation event after commit.  Swappable
	// in tests; defaults to the RabbitMQ publisher.
	publish func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

func NewReservationService(db *sql.DB, reservations *repository.ReservationRepo, appointments *repository.AppointmentRepo, purchases *repository.PurchaseRepo, members *repository.MemberRepo, services *repository.ServiceRepo, locations *repository.LocationRepo) *ReservationService {
	if db == nil || reservations == nil || appointments == nil || purchases == nil || members == nil || services == nil || locations == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		db:           db,
		reservations: reservations,
		appointments: appointments,
		purchases:    purchases,
		members:      members,
		services:     services,
		locations:    locations,
		publish:      queue.PublishReservationConfirmed,
	}
}

// CreateReservationInput carries the client-supplied fields for a new
// booking.  MemberID is ignored for member principals, who always book
// for themselves.
type CreateReservationInput struct {
	AppointmentID uint64
	PurchaseID    uint64
	MemberID      uint64
	Notes         string
}

// Create books one space of an appointment against one session of a
// purchase.  The reservation row, the capacity increment and the
// session decrement commit together or not at all.  Under the row
// locks it verifies the appointment is open and in the future, a space
// is free, the member holds no other active reservation for it, and
// the purchase belongs to the member, matches the service, is ACTIVE
// with sessions left and not expired.  On success a confirmation event
// is published best-effort.
func (s *ReservationService) Create(ctx context.Context, p auth.Principal, in CreateReservationInput) (*model.Reservation, error) {
	memberID, err := s.resolveMember(p, in.MemberID)
	if err != nil {
		return nil, err
	}

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

	appt, err := s.appointments.GetForUpdateTx(ctx, tx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, NotFound("appointment", in.AppointmentID)
		}
		return nil, err
	}
	if !p.CanModifyOwned(appt.LocationID, memberID) {
		return nil, Unauthorized("appointment belongs to another location")
	}
	now := time.Now().UTC()
	if err := checkAppointmentBookable(appt, now); err != nil {
		return nil, err
	}

	dup, err := s.reservations.ExistsActiveByMemberAndAppointmentTx(ctx, tx, memberID, appt.ID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, Invalid("member %d already has a reservation for appointment %d", memberID, appt.ID)
	}

	purchase, err := s.purchases.GetForUpdateTx(ctx, tx, in.PurchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, NotFound("purchase", in.PurchaseID)
		}
		return nil, err
	}
	if err := checkPurchaseUsable(purchase, memberID, appt.ServiceID, now); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		MemberID:      memberID,
		AppointmentID: appt.ID,
		PurchaseID:    purchase.ID,
		Status:        model.ReservationConfirmed,
		Notes:         in.Notes,
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := debitPurchaseTx(ctx, tx, s.purchases, purchase); err != nil {
		return nil, err
	}
	if err := s.appointments.UpdateCapacityTx(ctx, tx, appt.ID, +1); err != nil {
		if errors.Is(err, repository.ErrCounterBound) {
			return nil, Conflict("appointment %d filled up concurrently", appt.ID)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.publishConfirmed(ctx, res, appt, purchase)
	return res, nil
}

// resolveMember determines whom the booking is for.  Members always
// book for themselves; staff must name the member.
func (s *ReservationService) resolveMember(p auth.Principal, requested uint64) (uint64, error) {
	if p.IsMember() {
		if p.MemberID == nil {
			return 0, Unauthorized("no member profile linked to this account")
		}
		if requested != 0 && requested != *p.MemberID {
			return 0, Unauthorized("members can only book for themselves")
		}
		return *p.MemberID, nil
	}
	if requested == 0 {
		return 0, Invalid("member_id is required")
	}
	return requested, nil
}

// publishConfirmed assembles and sends the confirmation event.
// Failures are logged and swallowed: the booking already committed.
func (s *ReservationService) publishConfirmed(ctx context.Context, res *model.Reservation, appt *model.Appointment, purchase *model.Purchase) {
	ev := queue.ReservationConfirmedEvent{
		ReservationID:   res.ID,
		MemberID:        res.MemberID,
		AppointmentID:   appt.ID,
		LocationID:      appt.LocationID,
		StartsAt:        appt.StartTime.Format(time.RFC3339),
		EndsAt:          appt.EndTime.Format(time.RFC3339),
		PurchaseID:      purchase.ID,
		RemainingUses:   purchase.RemainingUses,
		SpacesRemaining: appt.MaxCapacity - appt.CurrentCapacity - 1,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if member, err := s.members.GetByID(ctx, res.MemberID); err == nil {
		ev.MemberName = member.FullName()
	}
	if svc, err := s.services.GetByID(ctx, appt.ServiceID); err == nil {
		ev.ServiceName = svc.Name
	}
	if loc, err := s.locations.GetByID(ctx, appt.LocationID); err == nil {
		ev.LocationName = loc.Name
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("reservation %d: confirmation event not published: %v", res.ID, err)
	}
}

// GetByID returns one reservation, scoped to the caller.
func (s *ReservationService) GetByID(ctx context.Context, p auth.Principal, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, NotFound("reservation", id)
		}
		return nil, err
	}
	if err := s.authorize(ctx, p, res); err != nil {
		return nil, err
	}
	return res, nil
}

// authorize checks that the principal may act on the reservation:
// members on their own bookings, employees on bookings at their
// location, admins on all.
func (s *ReservationService) authorize(ctx context.Context, p auth.Principal, res *model.Reservation) error {
	if p.IsAdmin() {
		return nil
	}
	if p.IsMember() {
		if !p.CanAccessMember(res.MemberID) {
			return Unauthorized("reservation belongs to another member")
		}
		return nil
	}
	appt, err := s.appointments.GetByID(ctx, res.AppointmentID)
	if err != nil {
		return err
	}
	if !p.CanAccessLocation(appt.LocationID) {
		return Unauthorized("reservation belongs to another location")
	}
	return nil
}

// UpdateStatus moves a reservation through its lifecycle.  Staff only:
// attendance and cancellation are front-desk actions.  CANCELLED is
// terminal and releases the held counters exactly once; ATTENDED and
// NO_SHOW keep them.  A cancelled reservation cannot be revived, since
// its space and session were already returned.
func (s *ReservationService) UpdateStatus(ctx context.Context, p auth.Principal, id uint64, status string) (*model.Reservation, error) {
	if p.IsMember() {
		return nil, Unauthorized("reservation status changes are reserved to staff")
	}
	next, ok := model.ParseReservationStatus(status)
	if !ok {
		return nil, Invalid("unknown reservation status %q", status)
	}
	if next == model.ReservationWaitingList {
		return nil, Invalid("waiting list placement is not assignable")
	}

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

	res, err := s.reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, NotFound("reservation", id)
		}
		return nil, err
	}
	if err := s.authorize(ctx, p, res); err != nil {
		return nil, err
	}
	if res.Status == next {
		return res, nil // no-op, nothing to write
	}
	if res.Status == model.ReservationCancelled {
		return nil, InvalidState("reservation %d is already cancelled", id)
	}

	if next == model.ReservationCancelled {
		if err := s.releaseCountersTx(ctx, tx, res); err != nil {
			return nil, err
		}
	}
	res.Status = next
	if err := s.reservations.UpdateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// releaseCountersTx returns the reservation's held space and session
// inside the transaction.
func (s *ReservationService) releaseCountersTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	appt, err := s.appointments.GetForUpdateTx(ctx, tx, res.AppointmentID)
	if err != nil {
		return err
	}
	if err := s.appointments.UpdateCapacityTx(ctx, tx, appt.ID, -1); err != nil {
		if errors.Is(err, repository.ErrCounterBound) {
			return Conflict("appointment %d counter moved concurrently", appt.ID)
		}
		return err
	}
	purchase, err := s.purchases.GetForUpdateTx(ctx, tx, res.PurchaseID)
	if err != nil {
		return err
	}
	return creditPurchaseTx(ctx, tx, s.purchases, purchase)
}

// SwapPurchase rebinds a CONFIRMED reservation to a different
// purchase: the old bundle gets its session back and the new one is
// debited, all in one transaction.  The new purchase must be usable
// for the same member and service.  Appointment capacity is untouched;
// only the entitlement binding moves.  A nil notes pointer leaves the
// stored notes unchanged; newPurchaseID zero updates notes only.
func (s *ReservationService) SwapPurchase(ctx context.Context, p auth.Principal, id, newPurchaseID uint64, notes *string) (*model.Reservation, error) {
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

	res, err := s.reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, NotFound("reservation", id)
		}
		return nil, err
	}
	if err := s.authorize(ctx, p, res); err != nil {
		return nil, err
	}
	if res.Status != model.ReservationConfirmed {
		return nil, InvalidState("only confirmed reservations can change purchase")
	}
	if notes != nil {
		res.Notes = *notes
	}
	if newPurchaseID == 0 || res.PurchaseID == newPurchaseID {
		if notes == nil {
			return res, nil
		}
		if err := s.reservations.UpdateTx(ctx, tx, res); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return res, nil
	}
	appt, err := s.appointments.GetByID(ctx, res.AppointmentID)
	if err != nil {
		return nil, err
	}

	// Lock the two purchases in ascending ID order so concurrent swaps
	// between the same pair cannot deadlock.
	firstID, secondID := res.PurchaseID, newPurchaseID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.purchases.GetForUpdateTx(ctx, tx, firstID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, NotFound("purchase", firstID)
		}
		return nil, err
	}
	second, err := s.purchases.GetForUpdateTx(ctx, tx, secondID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, NotFound("purchase", secondID)
		}
		return nil, err
	}
	oldPurchase, newPurchase := first, second
	if oldPurchase.ID != res.PurchaseID {
		oldPurchase, newPurchase = second, first
	}

	if err := checkPurchaseUsable(newPurchase, res.MemberID, appt.ServiceID, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := creditPurchaseTx(ctx, tx, s.purchases, oldPurchase); err != nil {
		return nil, err
	}
	if err := debitPurchaseTx(ctx, tx, s.purchases, newPurchase); err != nil {
		return nil, err
	}
	res.PurchaseID = newPurchase.ID
	if err := s.reservations.UpdateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// Delete removes a reservation row outright.  The held counters are
// returned only when the reservation still holds them; deleting an
// already cancelled reservation must not refund a second time.
func (s *ReservationService) Delete(ctx context.Context, p auth.Principal, id uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return NotFound("reservation", id)
		}
		return err
	}
	if err := s.authorize(ctx, p, res); err != nil {
		return err
	}
	if model.ReservationHoldsCounters(res.Status) {
		if err := s.releaseCountersTx(ctx, tx, res); err != nil {
			return err
		}
	}
	if err := s.reservations.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// List returns reservation details matching the filter, narrowed to
// what the principal may see: members their own bookings, employees
// their location's.
func (s *ReservationService) List(ctx context.Context, p auth.Principal, f repository.ReservationFilter) ([]repository.ReservationDetail, error) {
	switch {
	case p.IsMember():
		if p.MemberID == nil {
			return nil, Unauthorized("no member profile linked to this account")
		}
		f.MemberID = p.MemberID
	case p.IsEmployee():
		if p.LocationID == nil {
			return nil, Unauthorized("no location assigned")
		}
		f.LocationID = p.LocationID
	}
	return s.reservations.List(ctx, f)
}

// CapacityReport is the live occupancy of one appointment.
type CapacityReport struct {
	AppointmentID   uint64 `json:"appointment_id"`
	MaxCapacity     int    `json:"max_capacity"`
	CurrentCapacity int    `json:"current_capacity"`
	AvailableSpaces int    `json:"available_spaces"`
}

// AppointmentCapacity reports how many spaces an appointment has left.
func (s *ReservationService) AppointmentCapacity(ctx context.Context, p auth.Principal, appointmentID uint64) (*CapacityReport, error) {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, NotFound("appointment", appointmentID)
		}
		return nil, err
	}
	if !p.CanModifyOwned(appt.LocationID, appt.MemberID) {
		return nil, Unauthorized("appointment belongs to another location")
	}
	return &CapacityReport{
		AppointmentID:   appt.ID,
		MaxCapacity:     appt.MaxCapacity,
		CurrentCapacity: appt.CurrentCapacity,
		AvailableSpaces: appt.AvailableSpaces(),
	}, nil
}
