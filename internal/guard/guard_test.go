package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
)

type stubRequestRepo struct {
	active map[int64]*model.DeliveryRequest
	err    error
}

func (s *stubRequestRepo) Create(context.Context, *model.DeliveryRequest) (*model.DeliveryRequest, error) {
	panic("not implemented")
}

func (s *stubRequestRepo) GetByID(context.Context, int64) (*model.DeliveryRequest, error) {
	panic("not implemented")
}

func (s *stubRequestRepo) ActiveForCustomer(_ context.Context, customerID int64) (*model.DeliveryRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	if req, ok := s.active[customerID]; ok {
		return req, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *stubRequestRepo) List(context.Context, model.RequestStatus) ([]model.DeliveryRequest, error) {
	panic("not implemented")
}

func (s *stubRequestRepo) UpdateStatus(context.Context, *model.DeliveryRequest) error {
	panic("not implemented")
}

func newTestLimiter(window time.Duration) (*RateLimiter, *time.Time) {
	limiter := NewRateLimiter(window)
	current := time.Date(2024, 5, 16, 7, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }
	return limiter, &current
}

func TestGuardReserveAllowsFreeCustomer(t *testing.T) {
	limiter, _ := newTestLimiter(5 * time.Second)
	g := New(&stubRequestRepo{}, limiter)

	if err := g.Reserve(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGuardReserveRejectsActiveRequest(t *testing.T) {
	limiter, _ := newTestLimiter(5 * time.Second)
	repo := &stubRequestRepo{active: map[int64]*model.DeliveryRequest{
		7: {ID: 42, CustomerID: 7, Status: model.StatusProcessing},
	}}
	g := New(repo, limiter)

	err := g.Reserve(context.Background(), 7)
	if !errors.Is(err, domainErrors.ErrDuplicateActiveRequest) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	var dup *domainErrors.DuplicateActiveRequestError
	if !errors.As(err, &dup) {
		t.Fatalf("expected typed duplicate error, got %T", err)
	}
	if dup.ExistingID != 42 || dup.ExistingStatus != string(model.StatusProcessing) {
		t.Fatalf("unexpected conflict details: %+v", dup)
	}
}

func TestGuardReserveRateLimitsDoubleTap(t *testing.T) {
	limiter, clock := newTestLimiter(5 * time.Second)
	g := New(&stubRequestRepo{}, limiter)

	if err := g.Reserve(context.Background(), 1); err != nil {
		t.Fatalf("first attempt rejected: %v", err)
	}
	if err := g.Reserve(context.Background(), 1); !errors.Is(err, domainErrors.ErrRateLimited) {
		t.Fatalf("expected rate limit, got %v", err)
	}

	// An unrelated customer is not throttled by the first one.
	if err := g.Reserve(context.Background(), 2); err != nil {
		t.Fatalf("independent customer rejected: %v", err)
	}

	*clock = clock.Add(6 * time.Second)
	if err := g.Reserve(context.Background(), 1); err != nil {
		t.Fatalf("attempt after window rejected: %v", err)
	}
}

func TestGuardReservePropagatesStorageError(t *testing.T) {
	limiter, _ := newTestLimiter(5 * time.Second)
	boom := errors.New("storage down")
	g := New(&stubRequestRepo{err: boom}, limiter)

	if err := g.Reserve(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestRateLimiterEvictsIdleCustomers(t *testing.T) {
	limiter, clock := newTestLimiter(time.Second)

	for id := int64(1); id <= 5; id++ {
		limiter.Allow(id)
	}
	if got := limiter.Len(); got != 5 {
		t.Fatalf("tracked customers = %d, want 5", got)
	}

	// Keep one customer warm past the idle cutoff of the rest.
	*clock = clock.Add(idleFactor*time.Second - time.Millisecond)
	limiter.Allow(1)
	*clock = clock.Add(2 * time.Second)
	limiter.Allow(99)

	if got := limiter.Len(); got != 2 {
		t.Fatalf("tracked customers after eviction = %d, want 2", got)
	}
}
