package guard

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCreationWindow is the minimum spacing between creation attempts
// for one customer, sized to swallow UI double-taps.
const DefaultCreationWindow = 5 * time.Second

// idleFactor controls how long an untouched per-customer limiter survives
// before the periodic sweep drops it.
const idleFactor = 12

// RateLimiter allows one creation attempt per customer per window. State is
// in-memory and process-scoped; expired entries are evicted in time buckets
// so the map stays bounded.
type RateLimiter struct {
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	limiters  map[int64]*customerLimiter
	lastSweep time.Time
}

type customerLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter builds a limiter with the given per-customer window.
func NewRateLimiter(window time.Duration) *RateLimiter {
	if window <= 0 {
		window = DefaultCreationWindow
	}
	return &RateLimiter{
		window:   window,
		now:      time.Now,
		limiters: make(map[int64]*customerLimiter),
	}
}

// Allow reports whether the customer may attempt a creation right now and
// consumes the attempt if so.
func (r *RateLimiter) Allow(customerID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	entry, ok := r.limiters[customerID]
	if !ok {
		entry = &customerLimiter{lim: rate.NewLimiter(rate.Every(r.window), 1)}
		r.limiters[customerID] = entry
	}
	entry.lastSeen = now
	return entry.lim.AllowN(now, 1)
}

// Len reports the number of tracked customers.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

// sweepLocked evicts limiters idle past their usefulness, at most once per
// window so hot paths don't pay for a full map scan every call.
func (r *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.window {
		return
	}
	r.lastSweep = now
	cutoff := now.Add(-idleFactor * r.window)
	for id, entry := range r.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(r.limiters, id)
		}
	}
}
