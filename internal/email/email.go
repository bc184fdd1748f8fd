package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventix/eventix/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send delivers the ticket email for a fulfilled order. Each redemption code
// is the payload of the QR printed on the ticket.
func (s *Sender) Send(ctx context.Context, event kafka.TicketsIssuedEvent) error {
	if event.Email == "" {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\nThank you for your purchase. Your tickets for %s (%s):\n\n", event.FullName, event.EventTitle, event.Category)
	for i, code := range event.Codes {
		fmt.Fprintf(&body, "  Ticket %d: %s\n", i+1, code)
	}
	fmt.Fprintf(&body, "\nShow the QR code at the entrance. Order reference: %s\n", event.OrderID)

	fmt.Printf("send email to %s, %d ticket(s) for order %s:\n%s", event.Email, len(event.Codes), event.OrderID, body.String())
	return nil
}
