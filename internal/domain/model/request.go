package model

import "time"

// RequestStatus describes the staff workflow lifecycle.
type RequestStatus string

const (
	StatusPending             RequestStatus = "pending"
	StatusPendingConfirmation RequestStatus = "pending_confirmation"
	StatusProcessing          RequestStatus = "processing"
	StatusDelivered           RequestStatus = "delivered"
	StatusCancelled           RequestStatus = "cancelled"
)

// RequestPriority orders the delivery queue.
type RequestPriority string

const (
	PriorityNormal RequestPriority = "normal"
	PriorityUrgent RequestPriority = "urgent"
)

// CancelActor identifies who aborted a request.
type CancelActor string

const (
	ActorAdmin    CancelActor = "admin"
	ActorStaff    CancelActor = "staff"
	ActorCustomer CancelActor = "customer"
	ActorSystem   CancelActor = "system"
)

// ActiveStatuses are the states in which a request blocks creation of
// another one for the same customer.
var ActiveStatuses = []RequestStatus{StatusPending, StatusPendingConfirmation, StatusProcessing}

// DeliveryRequest is one cans delivery, either created manually or spawned
// by a recurrence rule. Customer fields are denormalized at creation.
type DeliveryRequest struct {
	ID         int64
	CustomerID int64

	CustomerName string
	Address      string
	PricePerCan  float64
	PaymentType  PaymentType

	Cans     int
	Priority RequestPriority
	Status   RequestStatus

	RequestedAt time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time

	CancelledAt        *time.Time
	CancelledBy        CancelActor
	CancellationReason string
	CancellationNotes  string
}

// Active reports whether the status counts against the one-active-request
// invariant.
func (s RequestStatus) Active() bool {
	switch s {
	case StatusPending, StatusPendingConfirmation, StatusProcessing:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s RequestStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is a legal workflow
// step. The happy path is forward-only; cancellation is reachable from any
// non-terminal state.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusProcessing:
		return s == StatusPending || s == StatusPendingConfirmation
	case StatusDelivered:
		return s == StatusProcessing
	case StatusCancelled:
		return true
	}
	return false
}

// ValidActor reports whether the cancel actor is one of the known roles.
func ValidActor(a CancelActor) bool {
	switch a {
	case ActorAdmin, ActorStaff, ActorCustomer, ActorSystem:
		return true
	}
	return false
}
