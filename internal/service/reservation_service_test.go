package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrea360/fitness-center-backend/internal/auth"
	"github.com/andrea360/fitness-center-backend/internal/model"
)

func uintPtr(v uint64) *uint64 { return &v }

func TestResolveMember(t *testing.T) {
	s := &ReservationService{}

	t.Run("member books for self", func(t *testing.T) {
		p := auth.Principal{UserID: 1, Role: auth.RoleMember, MemberID: uintPtr(42)}
		id, err := s.resolveMember(p, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
	})

	t.Run("member naming self explicitly is fine", func(t *testing.T) {
		p := auth.Principal{UserID: 1, Role: auth.RoleMember, MemberID: uintPtr(42)}
		id, err := s.resolveMember(p, 42)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
	})

	t.Run("member booking for someone else denied", func(t *testing.T) {
		p := auth.Principal{UserID: 1, Role: auth.RoleMember, MemberID: uintPtr(42)}
		_, err := s.resolveMember(p, 7)
		var ue *UnauthorizedError
		assert.ErrorAs(t, err, &ue)
	})

	t.Run("member without profile denied", func(t *testing.T) {
		p := auth.Principal{UserID: 1, Role: auth.RoleMember}
		_, err := s.resolveMember(p, 0)
		var ue *UnauthorizedError
		assert.ErrorAs(t, err, &ue)
	})

	t.Run("staff must name the member", func(t *testing.T) {
		p := auth.Principal{UserID: 2, Role: auth.RoleEmployee, LocationID: uintPtr(1)}
		_, err := s.resolveMember(p, 0)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("staff books for named member", func(t *testing.T) {
		p := auth.Principal{UserID: 2, Role: auth.RoleAdmin}
		id, err := s.resolveMember(p, 7)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)
	})
}

func TestResolveLocation(t *testing.T) {
	s := &AppointmentService{}

	t.Run("admin must name a location", func(t *testing.T) {
		p := auth.Principal{Role: auth.RoleAdmin}
		_, err := s.resolveLocation(p, 0)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("admin schedules anywhere", func(t *testing.T) {
		p := auth.Principal{Role: auth.RoleAdmin}
		id, err := s.resolveLocation(p, 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), id)
	})

	t.Run("employee pinned to own location", func(t *testing.T) {
		p := auth.Principal{Role: auth.RoleEmployee, LocationID: uintPtr(3)}
		id, err := s.resolveLocation(p, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), id)
	})

	t.Run("employee naming another location is overridden", func(t *testing.T) {
		p := auth.Principal{Role: auth.RoleEmployee, LocationID: uintPtr(3)}
		id, err := s.resolveLocation(p, 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), id)
	})

	t.Run("employee without location denied", func(t *testing.T) {
		p := auth.Principal{Role: auth.RoleEmployee}
		_, err := s.resolveLocation(p, 0)
		var ue *UnauthorizedError
		assert.ErrorAs(t, err, &ue)
	})
}

func TestUpdateStatusStaffOnly(t *testing.T) {
	s := &ReservationService{}

	t.Run("member denied", func(t *testing.T) {
		p := auth.Principal{UserID: 1, Role: auth.RoleMember, MemberID: uintPtr(42)}
		_, err := s.UpdateStatus(context.Background(), p, 5, model.ReservationCancelled)
		var ue *UnauthorizedError
		assert.ErrorAs(t, err, &ue)
	})

	t.Run("member denied even for attendance", func(t *testing.T) {
		p := auth.Principal{UserID: 1, Role: auth.RoleMember, MemberID: uintPtr(42)}
		_, err := s.UpdateStatus(context.Background(), p, 5, model.ReservationAttended)
		var ue *UnauthorizedError
		assert.ErrorAs(t, err, &ue)
	})
}

func TestNextAppointmentStatus(t *testing.T) {
	t.Run("scheduled to confirmed", func(t *testing.T) {
		next, err := nextAppointmentStatus(model.AppointmentScheduled, model.AppointmentConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentConfirmed, next)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := nextAppointmentStatus(model.AppointmentScheduled, "POSTPONED")
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := nextAppointmentStatus(model.AppointmentCompleted, model.AppointmentScheduled)
		var se *InvalidStateError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		_, err := nextAppointmentStatus(model.AppointmentCancelled, model.AppointmentConfirmed)
		var se *InvalidStateError
		assert.ErrorAs(t, err, &se)
	})
}
