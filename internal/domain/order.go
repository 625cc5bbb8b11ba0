package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Terminal reports whether the status is final. Terminal orders never
// change status again.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// Fulfillable reports whether an order in this status may be allocated
// stock. Payment confirmation is the caller's gate, so both pending and
// paid qualify.
func (s OrderStatus) Fulfillable() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

// Payment carries the buyer-supplied payment metadata. Opaque to the
// fulfillment engine.
type Payment struct {
	Method          string
	ReferenceNumber string
	ProofURL        string
}

// Order is a buyer's request for one (account type, duration) tier of a
// product. Price is a snapshot taken at order time and is never recomputed
// from the current catalog.
type Order struct {
	ID          string
	Buyer       string
	ProductID   string
	AccountType string
	Duration    string
	Price       decimal.Decimal
	Payment     Payment
	Status      OrderStatus
	CreatedAt   time.Time
}
