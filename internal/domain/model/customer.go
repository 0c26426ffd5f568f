package model

import "time"

// PaymentType describes how a customer settles deliveries.
type PaymentType string

const (
	PaymentCash    PaymentType = "cash"
	PaymentMonthly PaymentType = "monthly"
)

// Customer is a delivery recipient. Name, address and pricing are
// snapshotted onto every DeliveryRequest at creation time, so edits here
// never rewrite history.
type Customer struct {
	ID          int64
	Name        string
	Address     string
	PricePerCan float64
	PaymentType PaymentType
	CreatedAt   time.Time
}
