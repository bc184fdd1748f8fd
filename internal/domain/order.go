package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order is a single purchase intent. Status transitions are monotonic:
// pending goes to completed or failed and terminal states never change.
// PriceAtPurchase is the tier's unit price captured when the order was
// created and is never recomputed.
type Order struct {
	ID               string
	TierID           int64
	BillingInfoID    *int64
	Quantity         int
	FullName         string
	Email            string
	Phone            string
	Status           OrderStatus
	PriceAtPurchase  decimal.Decimal
	PaymentSessionID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Total is the amount the buyer owes: unit price at purchase times quantity.
func (o Order) Total() decimal.Decimal {
	return o.PriceAtPurchase.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// BillingInfo is the payer snapshot as confirmed by the payment provider at
// settlement time. It may differ from the attendee-entered contact fields and
// is created only when a payment is confirmed.
type BillingInfo struct {
	ID        int64
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}
