package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID          int64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tiers []TicketTier
}

// TicketTier is a purchasable class of ticket for an event (e.g. VIP,
// General Admission). Availability never goes below zero; every successful
// reservation decrements it and every failed order restocks it.
type TicketTier struct {
	ID           int64
	EventID      int64
	Category     string
	Price        decimal.Decimal
	Availability int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
