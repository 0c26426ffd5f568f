package dto

import "time"

// CustomerRequest is the customer creation payload.
type CustomerRequest struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PricePerCan float64 `json:"price_per_can"`
	PaymentType string  `json:"payment_type"`
}

// CustomerResponse represents a customer record.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	PricePerCan float64   `json:"price_per_can"`
	PaymentType string    `json:"payment_type"`
	CreatedAt   time.Time `json:"created_at"`
}
