package dto

import "time"

// CreateRequestRequest is the manual delivery request creation payload.
type CreateRequestRequest struct {
	CustomerID int64  `json:"customer_id"`
	Cans       int    `json:"cans"`
	Priority   string `json:"priority,omitempty"`
}

// StatusRequest carries a forward workflow transition.
type StatusRequest struct {
	Status string `json:"status"`
}

// CancelRequest carries cancellation metadata.
type CancelRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

// RequestResponse represents a delivery request with its customer snapshot.
type RequestResponse struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customer_id"`

	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	PricePerCan  float64 `json:"price_per_can"`
	PaymentType  string  `json:"payment_type"`

	Cans     int    `json:"cans"`
	Priority string `json:"priority"`
	Status   string `json:"status"`

	RequestedAt time.Time  `json:"requested_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancellationNotes  string     `json:"cancellation_notes,omitempty"`
}
