package domain

import "time"

type TicketStatus string

const (
	TicketStatusIssued TicketStatus = "issued"
	TicketStatusUsed   TicketStatus = "used"
)

// Ticket is a redeemable unit issued after successful payment, one per
// purchased unit. Code is the QR payload presented at the gate; it is
// globally unique and immutable once assigned.
type Ticket struct {
	ID       string
	TierID   int64
	OrderID  string
	FullName string
	Email    string
	Phone    string
	Code     string
	Status   TicketStatus
	IssuedAt time.Time
	UsedAt   *time.Time
}
