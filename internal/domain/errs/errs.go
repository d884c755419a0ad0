package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the base of every NotFoundError; repositories return
	// it directly when a lookup misses and services wrap it with entity
	// detail.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is the base of every AlreadyExistsError.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidCredentials is deliberately uninformative: it must not
	// reveal whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken covers signature, expiry and type-mismatch failures
	// without distinguishing them.
	ErrInvalidToken = errors.New("invalid token")

	// ErrPermissionDenied is a final access-control decision.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation is the base of every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports that the target record is absent.
type NotFoundError struct {
	Entity string
	Key    string
	Value  any
}

func NotFound(entity, key string, value any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s=%v not found", e.Entity, e.Key, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyExistsError reports a uniqueness violation, whether caught by a
// service pre-check or by the storage unique constraint.
type AlreadyExistsError struct {
	Entity string
	Field  string
	Value  any
}

func AlreadyExists(entity, field string, value any) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, Field: field, Value: value}
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s=%v already exists", e.Entity, e.Field, e.Value)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// ValidationError reports a field-level constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
