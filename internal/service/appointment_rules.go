package service

import (
	"time"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

const (
	openingHour = 8  // first bookable start hour, inclusive
	closingHour = 22 // last bookable start hour, inclusive

	// minLeadTime is how far in advance an appointment must be booked.
	minLeadTime = 2 * time.Hour

	// memberOverlapWindow pads the blocked interval around a new
	// appointment: the member may hold no other appointment from
	// thirty minutes before the start until thirty minutes after the
	// session ends.
	memberOverlapWindow = 30 * time.Minute
)

// validateStartWindow rejects start times outside the facility's
// bookable hours.  An appointment may start at any minute of an hour
// from openingHour through closingHour.
func validateStartWindow(start time.Time) error {
	h := start.UTC().Hour()
	if h < openingHour || h > closingHour {
		return Invalid("appointments must start between %02d:00 and %02d:59", openingHour, closingHour)
	}
	return nil
}

// validateLeadTime rejects start times in the past or closer than the
// minimum lead time.  A start exactly at now+minLeadTime is allowed.
func validateLeadTime(start, now time.Time) error {
	if !start.After(now) {
		return Invalid("appointment start must be in the future")
	}
	if start.Before(now.Add(minLeadTime)) {
		return Invalid("appointments must be booked at least %v in advance", minLeadTime)
	}
	return nil
}

// memberOverlapBounds returns the interval to check for other
// appointments of the same member: from the padded start until the
// padded end of the session, so a booking cannot begin while an
// earlier one of the member's sessions is still running.
func memberOverlapBounds(start time.Time, durationMinutes int) (from, to time.Time) {
	end := appointmentEnd(start, durationMinutes)
	return start.Add(-memberOverlapWindow), end.Add(memberOverlapWindow)
}

// checkAppointmentBookable decides whether an appointment can take a
// new reservation.  A closed or started appointment is a state error;
// a full one fails validation like any other rejected booking request.
func checkAppointmentBookable(appt *model.Appointment, now time.Time) error {
	if appt.Status == model.AppointmentCancelled || appt.Status == model.AppointmentCompleted {
		return InvalidState("appointment %d is %s", appt.ID, appt.Status)
	}
	if !appt.StartTime.After(now) {
		return InvalidState("appointment %d has already started", appt.ID)
	}
	if appt.AvailableSpaces() <= 0 {
		return Invalid("appointment %d is full", appt.ID)
	}
	return nil
}

// appointmentEnd derives the end time from the service duration.
func appointmentEnd(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}
