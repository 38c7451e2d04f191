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

// AppointmentService schedules service occurrences and drives their
// status lifecycle.  Creation runs a validation chain over the
// principal, the target member, the service catalog and the calendar;
// every rule that fails maps to a typed error so handlers answer with
// the right status code.
type AppointmentService struct {
	db           *sql.DB
	appointments *repository.AppointmentRepo
	members      *repository.MemberRepo
	services     *repository.ServiceRepo
	locations    *repository.LocationRepo
	purchases    *repository.PurchaseRepo
}

func NewAppointmentService(db *sql.DB, appointments *repository.AppointmentRepo, members *repository.MemberRepo, services *repository.ServiceRepo, locations *repository.LocationRepo, purchases *repository.PurchaseRepo) *AppointmentService {
	if db == nil || appointments == nil || members == nil || services == nil || locations == nil || purchases == nil {
		panic("nil dependency passed to NewAppointmentService")
	}
	return &AppointmentService{
		db:           db,
		appointments: appointments,
		members:      members,
		services:     services,
		locations:    locations,
		purchases:    purchases,
	}
}

// CreateAppointmentInput carries the client-supplied fields for a new
// appointment.
// LocationID is only honored for admins; employees and members are
// pinned to their own location.
type CreateAppointmentInput struct {
	ServiceID  uint64
	MemberID   uint64
	LocationID uint64
	StartTime  time.Time
	Notes      string
}

// Create validates and schedules a new appointment.  The rule chain,
// in order: the location is resolved from the principal's role, the
// start time must be in the future, the principal must be allowed to
// book for the target member, the service must be offered at the
// location, the member's membership must be ACTIVE and the member must
// belong to the location, the start must fall inside bookable hours
// with the minimum lead time, the member may hold no other appointment
// overlapping the session padded by thirty minutes on each side, and a
// group service may not
// overlap another appointment at the same location.
func (s *AppointmentService) Create(ctx context.Context, p auth.Principal, in CreateAppointmentInput) (*model.Appointment, error) {
	locationID, err := s.resolveLocation(p, in.LocationID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	start := in.StartTime.UTC()
	if !start.After(now) {
		return nil, Invalid("appointment start must be in the future")
	}
	if p.IsMember() && !p.CanAccessMember(in.MemberID) {
		return nil, Unauthorized("members can only book for themselves")
	}

	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, NotFound("service", in.ServiceID)
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, InvalidState("service %d is not active", svc.ID)
	}
	offered, err := s.services.OfferedAt(ctx, svc.ID, locationID)
	if err != nil {
		return nil, err
	}
	if !offered {
		return nil, Invalid("service %d is not offered at location %d", svc.ID, locationID)
	}

	member, err := s.members.GetByID(ctx, in.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, NotFound("member", in.MemberID)
		}
		return nil, err
	}
	if member.MembershipStatus != model.MembershipActive {
		return nil, InvalidState("membership of member %d is %s", member.ID, member.MembershipStatus)
	}
	if member.LocationID != locationID {
		return nil, Invalid("member %d belongs to another location", member.ID)
	}

	if err := validateStartWindow(start); err != nil {
		return nil, err
	}
	if err := validateLeadTime(start, now); err != nil {
		return nil, err
	}

	from, to := memberOverlapBounds(start, svc.DurationMinutes)
	busy, err := s.appointments.ExistsMemberOverlap(ctx, member.ID, from, to)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, Invalid("member %d already has an appointment between %s and %s",
			member.ID, from.Format("15:04"), to.Format("15:04"))
	}

	end := appointmentEnd(start, svc.DurationMinutes)
	if svc.MaxCapacity > 1 {
		// Group sessions claim the room: no other appointment may run
		// at the location during the slot.
		n, err := s.appointments.CountLocationOverlap(ctx, locationID, start, end)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, Invalid("location %d already has an appointment in this slot", locationID)
		}
	}

	createdBy := p.UserID
	appt := &model.Appointment{
		ServiceID:       svc.ID,
		MemberID:        member.ID,
		LocationID:      locationID,
		CreatedBy:       &createdBy,
		StartTime:       start,
		EndTime:         end,
		MaxCapacity:     svc.MaxCapacity,
		CurrentCapacity: 0,
		Status:          model.AppointmentScheduled,
		Notes:           in.Notes,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// resolveLocation picks the location the appointment belongs to.
// Admins may schedule anywhere and must name the location; employees
// and members are pinned to their assigned location, and any location
// they name in the request is disregarded.
func (s *AppointmentService) resolveLocation(p auth.Principal, requested uint64) (uint64, error) {
	if p.IsAdmin() {
		if requested == 0 {
			return 0, Invalid("location_id is required")
		}
		return requested, nil
	}
	if p.LocationID == nil {
		return 0, Unauthorized("no location assigned")
	}
	return *p.LocationID, nil
}

// GetByID returns one appointment, scoped by the caller's location or
// membership.
func (s *AppointmentService) GetByID(ctx context.Context, p auth.Principal, id uint64) (*model.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, NotFound("appointment", id)
		}
		return nil, err
	}
	if !p.CanModifyOwned(appt.LocationID, appt.MemberID) {
		return nil, Unauthorized("appointment belongs to another location")
	}
	return appt, nil
}

// UpdateInput carries the mutable fields of an appointment.  Nil
// pointers leave the stored value unchanged.
type UpdateAppointmentInput struct {
	StartTime *time.Time
	Status    *string
	Notes     *string
}

// Update reschedules or annotates an appointment.  Rescheduling
// re-runs the timing rules and recomputes the end from the service
// duration; it is refused once anyone has reserved a slot, since
// attendees booked the original time.
func (s *AppointmentService) Update(ctx context.Context, p auth.Principal, id uint64, in UpdateAppointmentInput) (*model.Appointment, error) {
	appt, err := s.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if p.IsMember() {
		return nil, Unauthorized("members cannot modify appointments")
	}
	if in.StartTime != nil {
		if appt.CurrentCapacity > 0 {
			return nil, InvalidState("appointment %d has reservations and cannot be rescheduled", id)
		}
		start := in.StartTime.UTC()
		now := time.Now().UTC()
		if err := validateStartWindow(start); err != nil {
			return nil, err
		}
		if err := validateLeadTime(start, now); err != nil {
			return nil, err
		}
		svc, err := s.services.GetByID(ctx, appt.ServiceID)
		if err != nil {
			return nil, err
		}
		appt.StartTime = start
		appt.EndTime = appointmentEnd(start, svc.DurationMinutes)
	}
	if in.Status != nil {
		next, err := nextAppointmentStatus(appt.Status, *in.Status)
		if err != nil {
			return nil, err
		}
		appt.Status = next
	}
	if in.Notes != nil {
		appt.Notes = *in.Notes
	}
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// nextAppointmentStatus validates a requested status transition.
// Terminal states (COMPLETED, CANCELLED) cannot be left.
func nextAppointmentStatus(current, requested string) (string, error) {
	switch requested {
	case model.AppointmentScheduled, model.AppointmentConfirmed, model.AppointmentInProgress,
		model.AppointmentCompleted, model.AppointmentCancelled, model.AppointmentNoShow:
	default:
		return "", Invalid("unknown appointment status %q", requested)
	}
	if current == model.AppointmentCompleted || current == model.AppointmentCancelled {
		return "", InvalidState("appointment is already %s", current)
	}
	return requested, nil
}

// cancelLeadTime is how long before the start a member may still
// cancel their own appointment.  Staff cancel at any time.
const cancelLeadTime = time.Hour

// Cancel marks an appointment CANCELLED.  Members may cancel their own
// appointment up to an hour before it starts; staff at any time.
// Existing reservations keep their counters; releasing them is the
// reservation engine's job and happens per reservation.
func (s *AppointmentService) Cancel(ctx context.Context, p auth.Principal, id uint64) (*model.Appointment, error) {
	appt, err := s.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if p.IsMember() && time.Now().UTC().After(appt.StartTime.Add(-cancelLeadTime)) {
		return nil, InvalidState("appointment %d starts too soon to cancel", id)
	}
	next, err := nextAppointmentStatus(appt.Status, model.AppointmentCancelled)
	if err != nil {
		return nil, err
	}
	appt.Status = next
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Complete marks an appointment COMPLETED after it has been held.
func (s *AppointmentService) Complete(ctx context.Context, p auth.Principal, id uint64) (*model.Appointment, error) {
	status := model.AppointmentCompleted
	return s.Update(ctx, p, id, UpdateAppointmentInput{Status: &status})
}

// Delete removes an appointment outright.  Only empty appointments may
// be deleted; one with reservations must be cancelled instead so the
// bookings are unwound through the reservation engine.
func (s *AppointmentService) Delete(ctx context.Context, p auth.Principal, id uint64) error {
	if p.IsMember() {
		return Unauthorized("members cannot delete appointments")
	}
	appt, err := s.GetByID(ctx, p, id)
	if err != nil {
		return err
	}
	if appt.CurrentCapacity > 0 {
		return InvalidState("appointment %d has reservations; cancel it instead", id)
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return NotFound("appointment", id)
		}
		return err
	}
	return nil
}

// AvailableForMember lists upcoming SCHEDULED appointments with free
// capacity at the member's location that the member could actually
// book: the service is offered there and the member holds a usable
// bundle for it.
func (s *AppointmentService) AvailableForMember(ctx context.Context, p auth.Principal, memberID uint64) ([]model.Appointment, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, NotFound("member", memberID)
		}
		return nil, err
	}
	if !p.CanModifyOwned(member.LocationID, memberID) {
		return nil, Unauthorized("cannot browse availability for another member")
	}
	appts, err := s.appointments.ListUpcomingScheduledByLocation(ctx, member.LocationID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	bundles, err := s.purchases.ListActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	usable := make(map[uint64]bool, len(bundles))
	for i := range bundles {
		if !bundles[i].Expired(now) {
			usable[bundles[i].ServiceID] = true
		}
	}
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.AvailableSpaces() > 0 && usable[a.ServiceID] {
			out = append(out, a)
		}
	}
	return out, nil
}

// AvailableAtLocation lists upcoming SCHEDULED appointments with free
// capacity at a location, regardless of who asks or what they own.
func (s *AppointmentService) AvailableAtLocation(ctx context.Context, p auth.Principal, locationID uint64) ([]model.Appointment, error) {
	if !p.CanAccessLocation(locationID) {
		return nil, Unauthorized("cannot browse another location's availability")
	}
	appts, err := s.appointments.ListUpcomingScheduledByLocation(ctx, locationID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.AvailableSpaces() > 0 {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListByLocation lists appointments at a location, optionally bounded
// to a day or range by the caller.
func (s *AppointmentService) ListByLocation(ctx context.Context, p auth.Principal, locationID uint64, from, to *time.Time) ([]model.Appointment, error) {
	if !p.CanAccessLocation(locationID) {
		return nil, Unauthorized("cannot list another location's appointments")
	}
	if from != nil && to != nil {
		return s.appointments.ListByLocationAndRange(ctx, locationID, *from, *to)
	}
	return s.appointments.ListByLocation(ctx, locationID)
}

// ListByMember lists a member's appointments.
func (s *AppointmentService) ListByMember(ctx context.Context, p auth.Principal, memberID uint64) ([]model.Appointment, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, NotFound("member", memberID)
		}
		return nil, err
	}
	if !p.CanModifyOwned(member.LocationID, memberID) {
		return nil, Unauthorized("cannot list another member's appointments")
	}
	return s.appointments.ListByMember(ctx, memberID)
}

// HourlyLoad is one slot of the capacity report: how many appointments
// run during the hour and how many total spaces remain.
type HourlyLoad struct {
	Hour            int `json:"hour"`
	Appointments    int `json:"appointments"`
	AvailableSpaces int `json:"available_spaces"`
}

// DayLoad is the capacity report for one location and day: the
// per-hour breakdown plus the day's overall utilization, the booked
// share of all offered capacity.
type DayLoad struct {
	Day         string       `json:"day"`
	Hours       []HourlyLoad `json:"hours"`
	Utilization float64      `json:"utilization"`
}

// CapacityByHour summarizes a location's bookable day: for each hour
// from opening to closing, the number of appointments overlapping that
// hour and the free spaces they still offer.
func (s *AppointmentService) CapacityByHour(ctx context.Context, p auth.Principal, locationID uint64, day time.Time) (*DayLoad, error) {
	if !p.CanAccessLocation(locationID) {
		return nil, Unauthorized("cannot inspect another location's capacity")
	}
	y, m, d := day.UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	appts, err := s.appointments.ListByLocationAndRange(ctx, locationID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	report := &DayLoad{Day: dayStart.Format("2006-01-02")}
	var booked, offered int
	for h := openingHour; h <= closingHour; h++ {
		slotStart := dayStart.Add(time.Duration(h) * time.Hour)
		slotEnd := slotStart.Add(time.Hour)
		load := HourlyLoad{Hour: h}
		for i := range appts {
			a := &appts[i]
			if a.Status == model.AppointmentCancelled {
				continue
			}
			if a.StartTime.Before(slotEnd) && a.EndTime.After(slotStart) {
				load.Appointments++
				load.AvailableSpaces += a.AvailableSpaces()
			}
		}
		report.Hours = append(report.Hours, load)
	}
	for i := range appts {
		a := &appts[i]
		if a.Status == model.AppointmentCancelled {
			continue
		}
		booked += a.CurrentCapacity
		offered += a.MaxCapacity
	}
	if offered > 0 {
		report.Utilization = float64(booked) / float64(offered)
	}
	return report, nil
}
