// Package guard enforces the single-active-delivery invariant: for any
// customer at most one delivery request may sit in an active status.
//
// Three layers back each other up. The partial unique index in storage is
// the authoritative tie-breaker under races; the pre-check here is the
// cheap fast path; the per-customer rate limiter absorbs double submissions
// before they reach either.
package guard

import (
	"context"
	"errors"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
)

// Guard performs pre-insert duplicate checks. A passing Reserve is not a
// lease: a concurrent writer can still win the race, and the storage
// constraint rejection must then be treated exactly like a Reserve failure.
type Guard struct {
	requests repository.RequestRepository
	limiter  *RateLimiter
}

// New builds a guard over the request store and an injectable limiter.
func New(requests repository.RequestRepository, limiter *RateLimiter) *Guard {
	return &Guard{requests: requests, limiter: limiter}
}

// Reserve checks whether a creation attempt for the customer may proceed.
// Returns domain errors.ErrRateLimited when attempts come too fast, or a
// *errors.DuplicateActiveRequestError when an active request already exists.
func (g *Guard) Reserve(ctx context.Context, customerID int64) error {
	if !g.limiter.Allow(customerID) {
		return domainErrors.ErrRateLimited
	}

	existing, err := g.requests.ActiveForCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return &domainErrors.DuplicateActiveRequestError{
		ExistingID:     existing.ID,
		ExistingStatus: string(existing.Status),
	}
}
