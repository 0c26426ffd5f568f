package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrValidation             = errors.New("validation failed")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrDuplicateActiveRequest = errors.New("customer already has an active delivery request")
	ErrRateLimited            = errors.New("creation rate limit exceeded")
)

// DuplicateActiveRequestError carries the conflicting request so callers can
// report which delivery blocked the new one. Unwraps to ErrDuplicateActiveRequest.
type DuplicateActiveRequestError struct {
	ExistingID     int64
	ExistingStatus string
}

func (e *DuplicateActiveRequestError) Error() string {
	return fmt.Sprintf("customer already has active request %d (%s)", e.ExistingID, e.ExistingStatus)
}

func (e *DuplicateActiveRequestError) Unwrap() error {
	return ErrDuplicateActiveRequest
}

// InvalidTransitionError reports the rejected status pair. Unwraps to ErrInvalidTransition.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition delivery request from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
