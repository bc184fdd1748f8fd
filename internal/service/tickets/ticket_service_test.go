package tickets

import (
	"context"
	"testing"

	"github.com/eventix/eventix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Ticket, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Redeem(ctx context.Context, code string) (*domain.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func TestMint_OneTicketPerUnit(t *testing.T) {
	order := &domain.Order{
		ID:       "order-1",
		TierID:   7,
		Quantity: 3,
		FullName: "Test Buyer",
		Email:    "test@example.com",
		Phone:    "+15550001111",
	}

	minted, err := Mint(order)

	require.NoError(t, err)
	require.Len(t, minted, 3)

	codes := make(map[string]bool)
	for _, ticket := range minted {
		assert.Equal(t, "order-1", ticket.OrderID)
		assert.Equal(t, int64(7), ticket.TierID)
		assert.Equal(t, domain.TicketStatusIssued, ticket.Status)
		assert.Len(t, ticket.Code, 32)
		assert.NotEmpty(t, ticket.ID)
		codes[ticket.Code] = true
	}
	assert.Len(t, codes, 3, "codes must be unique")
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(16)
		require.NoError(t, err)
		assert.Len(t, code, 32)
		for _, r := range code {
			hex := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
			assert.True(t, hex, "code %s contains non-hex rune %c", code, r)
		}
		seen[code] = true
	}
	assert.Len(t, seen, 100)
}

func TestTicketService_Redeem_NormalizesCode(t *testing.T) {
	repo := &MockTicketRepository{}
	service := NewTicketService(repo)

	ticket := &domain.Ticket{Code: "ABCDEF", Status: domain.TicketStatusUsed}
	repo.On("Redeem", mock.Anything, "ABCDEF").Return(ticket, nil)

	got, err := service.Redeem(context.Background(), "  abcdef ")

	require.NoError(t, err)
	assert.Equal(t, ticket, got)
	repo.AssertExpectations(t)
}

func TestTicketService_Redeem_AlreadyUsed(t *testing.T) {
	repo := &MockTicketRepository{}
	service := NewTicketService(repo)

	repo.On("Redeem", mock.Anything, "ABCDEF").Return(nil, domain.ErrTicketAlreadyUsed)

	_, err := service.Redeem(context.Background(), "abcdef")

	assert.ErrorIs(t, err, domain.ErrTicketAlreadyUsed)
}
