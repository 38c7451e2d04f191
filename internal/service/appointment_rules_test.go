package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrea360/fitness-center-backend/internal/model"
)

func TestValidateStartWindow(t *testing.T) {
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		hour  int
		min   int
		valid bool
	}{
		{"opening hour", 8, 0, true},
		{"mid morning", 10, 30, true},
		{"last bookable hour", 22, 0, true},
		{"late within last hour", 22, 59, true},
		{"after closing", 23, 0, false},
		{"just before opening", 7, 59, false},
		{"midnight", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := day.Add(time.Duration(tc.hour)*time.Hour + time.Duration(tc.min)*time.Minute)
			err := validateStartWindow(start)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
			}
		})
	}
}

func TestValidateLeadTime(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("past start rejected", func(t *testing.T) {
		err := validateLeadTime(now.Add(-time.Minute), now)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("start equal to now rejected", func(t *testing.T) {
		err := validateLeadTime(now, now)
		assert.Error(t, err)
	})

	t.Run("under two hours rejected", func(t *testing.T) {
		err := validateLeadTime(now.Add(time.Hour+59*time.Minute), now)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("exactly two hours allowed", func(t *testing.T) {
		assert.NoError(t, validateLeadTime(now.Add(2*time.Hour), now))
	})

	t.Run("comfortably ahead allowed", func(t *testing.T) {
		assert.NoError(t, validateLeadTime(now.Add(26*time.Hour), now))
	})
}

func TestMemberOverlapBounds(t *testing.T) {
	start := time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)

	t.Run("window covers the padded session", func(t *testing.T) {
		from, to := memberOverlapBounds(start, 60)
		assert.Equal(t, start.Add(-30*time.Minute), from)
		assert.Equal(t, start.Add(90*time.Minute), to)
	})

	t.Run("appointment during the session falls inside", func(t *testing.T) {
		from, to := memberOverlapBounds(start, 60)
		other := start.Add(45 * time.Minute)
		assert.True(t, !other.Before(from) && other.Before(to))
	})

	t.Run("zero duration pads the start alone", func(t *testing.T) {
		from, to := memberOverlapBounds(start, 0)
		assert.Equal(t, start.Add(-30*time.Minute), from)
		assert.Equal(t, start.Add(30*time.Minute), to)
	})
}

func TestAppointmentEnd(t *testing.T) {
	start := time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(45*time.Minute), appointmentEnd(start, 45))
}

func TestCheckAppointmentBookable(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	open := func() *model.Appointment {
		return &model.Appointment{
			ID:              7,
			Status:          model.AppointmentScheduled,
			StartTime:       now.Add(3 * time.Hour),
			MaxCapacity:     10,
			CurrentCapacity: 4,
		}
	}

	t.Run("open appointment accepted", func(t *testing.T) {
		assert.NoError(t, checkAppointmentBookable(open(), now))
	})

	t.Run("cancelled appointment is a state error", func(t *testing.T) {
		appt := open()
		appt.Status = model.AppointmentCancelled
		var se *InvalidStateError
		assert.ErrorAs(t, checkAppointmentBookable(appt, now), &se)
	})

	t.Run("started appointment is a state error", func(t *testing.T) {
		appt := open()
		appt.StartTime = now
		var se *InvalidStateError
		assert.ErrorAs(t, checkAppointmentBookable(appt, now), &se)
	})

	t.Run("full appointment fails validation", func(t *testing.T) {
		appt := open()
		appt.CurrentCapacity = appt.MaxCapacity
		var ve *ValidationError
		assert.ErrorAs(t, checkAppointmentBookable(appt, now), &ve)
	})
}
