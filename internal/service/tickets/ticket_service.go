package tickets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/repository"
	"github.com/google/uuid"
)

// codeBytes gives 32 hex character redemption codes. The space is large
// enough that collisions are negligible; the unique index on tickets.code is
// the hard backstop.
const codeBytes = 16

type TicketUseCase interface {
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.Ticket, error)
	Redeem(ctx context.Context, code string) (*domain.Ticket, error)
}

type TicketService struct {
	tickets repository.TicketRepository
}

func NewTicketService(tickets repository.TicketRepository) *TicketService {
	return &TicketService{tickets: tickets}
}

func (s *TicketService) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return s.tickets.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *TicketService) ListByOrder(ctx context.Context, orderID string) ([]domain.Ticket, error) {
	return s.tickets.ListByOrder(ctx, orderID)
}

func (s *TicketService) Redeem(ctx context.Context, code string) (*domain.Ticket, error) {
	return s.tickets.Redeem(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// Mint builds one ticket per purchased unit of the order, each with a fresh
// redemption code. The caller persists them atomically with the order's
// pending-to-completed transition, so Mint itself touches no storage.
func Mint(order *domain.Order) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, order.Quantity)
	for i := 0; i < order.Quantity; i++ {
		code, err := GenerateCode(codeBytes)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, domain.Ticket{
			ID:       uuid.NewString(),
			TierID:   order.TierID,
			OrderID:  order.ID,
			FullName: order.FullName,
			Email:    order.Email,
			Phone:    order.Phone,
			Code:     code,
			Status:   domain.TicketStatusIssued,
		})
	}
	return tickets, nil
}

// GenerateCode returns n random bytes as an uppercase hex string.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

var _ TicketUseCase = (*TicketService)(nil)
