package application

import (
	"errors"
	"fmt"

	"github.com/example/therapy-scheduler/internal/persistence"
	"github.com/example/therapy-scheduler/internal/schedule"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks
	// permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a resource with the same identity
	// already exists.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a bearer token has expired.
	ErrSessionExpired = errors.New("application: session expired")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConstraintViolationError reports why a proposed therapy session was
// rejected by the scheduling validator. It is an expected, recoverable
// outcome, not a fault.
type ConstraintViolationError struct {
	Result schedule.Result
}

// Error implements the error interface.
func (e *ConstraintViolationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("scheduling constraint violated: %s", e.Result.Message())
}

// Code returns the violated constraint's identifier.
func (e *ConstraintViolationError) Code() schedule.ViolationCode {
	if e == nil {
		return ""
	}
	return e.Result.Code
}

// mapRepoError translates persistence sentinels into application errors.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation),
		errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("record", "related records are missing or invalid")
		return vErr
	}
	return err
}
