package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// CustomerRepositoryStub stores customers in-memory for tests.
type CustomerRepositoryStub struct {
	mu        sync.Mutex
	Customers map[int64]*model.Customer
	Next      int64
	Err       error
}

// NewCustomerRepositoryStub constructs stub repository with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{Customers: make(map[int64]*model.Customer), Next: 1}
}

// Add seeds a customer and returns it.
func (s *CustomerRepositoryStub) Add(name, address string) *model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Customer{
		ID:          s.Next,
		Name:        name,
		Address:     address,
		PricePerCan: 50,
		PaymentType: model.PaymentCash,
		CreatedAt:   time.Now(),
	}
	s.Next++
	s.Customers[c.ID] = c
	return c
}

func (s *CustomerRepositoryStub) Create(_ context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *customer
	created.ID = s.Next
	created.CreatedAt = time.Now()
	s.Next++
	s.Customers[created.ID] = &created
	return &created, nil
}

func (s *CustomerRepositoryStub) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.Customers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CustomerRepositoryStub) List(context.Context) ([]model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Customer, 0, len(s.Customers))
	for _, c := range s.Customers {
		out = append(out, *c)
	}
	return out, nil
}

// RequestRepositoryStub keeps delivery requests in-memory and enforces the
// single-active-request constraint under a mutex, standing in for the
// partial unique index.
type RequestRepositoryStub struct {
	mu       sync.Mutex
	Requests map[int64]*model.DeliveryRequest
	Next     int64
	Err      error
	// CreateErr, when set, fails Create calls after the constraint check.
	CreateErr error
}

// NewRequestRepositoryStub constructs stub repository with initialized maps.
func NewRequestRepositoryStub() *RequestRepositoryStub {
	return &RequestRepositoryStub{Requests: make(map[int64]*model.DeliveryRequest), Next: 1}
}

func (s *RequestRepositoryStub) Create(_ context.Context, request *model.DeliveryRequest) (*model.DeliveryRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Requests {
		if existing.CustomerID == request.CustomerID && existing.Status.Active() {
			return nil, &domainErrors.DuplicateActiveRequestError{
				ExistingID:     existing.ID,
				ExistingStatus: string(existing.Status),
			}
		}
	}
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	created := *request
	created.ID = s.Next
	created.RequestedAt = time.Now()
	s.Next++
	s.Requests[created.ID] = &created
	return &created, nil
}

func (s *RequestRepositoryStub) GetByID(_ context.Context, id int64) (*model.DeliveryRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.Requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *RequestRepositoryStub) ActiveForCustomer(_ context.Context, customerID int64) (*model.DeliveryRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Requests {
		if r.CustomerID == customerID && r.Status.Active() {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *RequestRepositoryStub) List(_ context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DeliveryRequest, 0, len(s.Requests))
	for _, r := range s.Requests {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *RequestRepositoryStub) UpdateStatus(_ context.Context, request *model.DeliveryRequest) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Requests[request.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	copied := *request
	s.Requests[request.ID] = &copied
	return nil
}

// ActiveCount reports active requests for a customer; used to assert the
// core invariant in tests.
func (s *RequestRepositoryStub) ActiveCount(customerID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.Requests {
		if r.CustomerID == customerID && r.Status.Active() {
			count++
		}
	}
	return count
}

// RuleRepositoryStub keeps recurrence rules in-memory.
type RuleRepositoryStub struct {
	mu    sync.Mutex
	Rules map[int64]*model.RecurrenceRule
	Next  int64
	Err   error
	// UpdateScheduleErr, when set, fails UpdateSchedule calls.
	UpdateScheduleErr error
}

// NewRuleRepositoryStub constructs stub repository with initialized maps.
func NewRuleRepositoryStub() *RuleRepositoryStub {
	return &RuleRepositoryStub{Rules: make(map[int64]*model.RecurrenceRule), Next: 1}
}

// Add seeds a rule and returns it.
func (s *RuleRepositoryStub) Add(rule *model.RecurrenceRule) *model.RecurrenceRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *rule
	copied.ID = s.Next
	s.Next++
	s.Rules[copied.ID] = &copied
	return &copied
}

func (s *RuleRepositoryStub) Create(_ context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	created := s.Add(rule)
	return created, nil
}

func (s *RuleRepositoryStub) GetByID(_ context.Context, id int64) (*model.RecurrenceRule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.Rules[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *RuleRepositoryStub) List(context.Context) ([]model.RecurrenceRule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RecurrenceRule, 0, len(s.Rules))
	for _, r := range s.Rules {
		out = append(out, *r)
	}
	return out, nil
}

func (s *RuleRepositoryStub) Due(_ context.Context, now time.Time) ([]model.RecurrenceRule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RecurrenceRule, 0)
	for _, r := range s.Rules {
		if r.NextRun != nil && !r.NextRun.After(now) {
			out = append(out, *r)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].NextRun.Before(*out[j-1].NextRun); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (s *RuleRepositoryStub) Update(_ context.Context, rule *model.RecurrenceRule) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Rules[rule.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	copied := *rule
	s.Rules[rule.ID] = &copied
	return nil
}

func (s *RuleRepositoryStub) UpdateSchedule(_ context.Context, id int64, nextRun, lastTriggeredAt *time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	if s.UpdateScheduleErr != nil {
		return s.UpdateScheduleErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.Rules[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	rule.NextRun = nextRun
	if lastTriggeredAt != nil {
		rule.LastTriggeredAt = lastTriggeredAt
	}
	return nil
}

func (s *RuleRepositoryStub) Delete(_ context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Rules[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Rules, id)
	return nil
}
