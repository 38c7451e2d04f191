// Package service implements the business rules of the fitness-center
// backend: entitlement purchases, appointment scheduling and the
// reservation engine that keeps appointment capacity and purchase
// session counters consistent.
//
// Services return typed errors so handlers can map outcomes to HTTP
// statuses without string matching.  The four failure families are
// NotFoundError, ValidationError, UnauthorizedError and
// InvalidStateError; ConflictError marks retryable races on shared
// counters.
package service

import "fmt"

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError for the given entity and ID.
func NotFound(entity string, id uint64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError reports that a request violates a business rule and
// would still fail if retried unchanged.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnauthorizedError reports that the caller's principal is not allowed
// to perform the operation on the target resource.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }

// Unauthorized builds an UnauthorizedError with a formatted message.
func Unauthorized(format string, args ...interface{}) error {
	return &UnauthorizedError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports that the target entity exists but its
// current state forbids the requested transition, such as reserving a
// cancelled appointment or debiting an exhausted purchase.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidState builds an InvalidStateError with a formatted message.
func InvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports that a concurrent writer invalidated the
// operation between validation and commit.  The request may succeed
// if retried.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a ConflictError with a formatted message.
func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
