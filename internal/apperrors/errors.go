package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested interval overlaps an existing reservation.
var ErrConflict = errors.New("slot already reserved")

// ErrInvalidState indicates that a transition is not permitted from the current state.
var ErrInvalidState = errors.New("invalid state transition")

// ErrForbidden indicates that the actor lacks ownership or role for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrStorage indicates an underlying persistence failure.
var ErrStorage = errors.New("storage failure")

// AppError carries an HTTP-ish code and a message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause first and the sentinel matching Code second, so
// errors.Is works for both the driver error and the taxonomy.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if sentinel := sentinelForCode(e.Code); sentinel != nil {
		errs = append(errs, sentinel)
	}
	return errs
}

func sentinelForCode(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusInternalServerError:
		return ErrStorage
	}
	return nil
}

// NewAppError creates an AppError. A 500 code marks the error as a storage failure.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error wrapping ErrNotFound for the given entity.
func NewNotFoundError(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// NewValidationError returns an error wrapping ErrValidation.
func NewValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NewConflictError returns an error wrapping ErrConflict.
func NewConflictError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// NewInvalidStateError returns an error wrapping ErrInvalidState.
func NewInvalidStateError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, msg)
}

// NewForbiddenError returns an error wrapping ErrForbidden.
func NewForbiddenError(msg string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, msg)
}

// NewStorageError wraps a driver error as a 500 AppError, which unwraps to ErrStorage.
func NewStorageError(msg string, err error) error {
	return NewAppError(http.StatusInternalServerError, msg, err)
}
