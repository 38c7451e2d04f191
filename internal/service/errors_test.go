package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorMessage(t *testing.T) {
	assert.EqualError(t, NotFound("appointment", 42), "appointment 42 not found")
	assert.EqualError(t, &NotFoundError{Entity: "checkout session"}, "checkout session not found")
}

func TestErrorFamiliesAreDistinguishable(t *testing.T) {
	var nf *NotFoundError
	var val *ValidationError
	var conflict *ConflictError

	err := Invalid("start hour %d outside bookable hours", 23)
	assert.True(t, errors.As(err, &val))
	assert.False(t, errors.As(err, &nf))
	assert.False(t, errors.As(err, &conflict))
	assert.EqualError(t, err, "start hour 23 outside bookable hours")

	assert.True(t, errors.As(Conflict("capacity moved"), &conflict))
	assert.True(t, errors.As(NotFound("member", 7), &nf))
}
