package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReservationStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"CONFIRMED", ReservationConfirmed, true},
		{"cancelled", ReservationCancelled, true},
		{"  Attended ", ReservationAttended, true},
		{"no_show", ReservationNoShow, true},
		{"WAITING_LIST", ReservationWaitingList, true},
		{"", "", false},
		{"BOOKED", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseReservationStatus(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestReservationHoldsCounters(t *testing.T) {
	assert.True(t, ReservationHoldsCounters(ReservationConfirmed))
	assert.True(t, ReservationHoldsCounters(ReservationAttended))
	assert.True(t, ReservationHoldsCounters(ReservationNoShow))
	assert.False(t, ReservationHoldsCounters(ReservationCancelled))
	assert.False(t, ReservationHoldsCounters(ReservationWaitingList))
	assert.False(t, ReservationHoldsCounters(""))
}
