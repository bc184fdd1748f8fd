package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/kafka"
	"github.com/eventix/eventix/internal/monitoring"
	"github.com/eventix/eventix/internal/payment"
	"github.com/eventix/eventix/internal/repository"
	"github.com/eventix/eventix/internal/service/tickets"
	"github.com/google/uuid"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	StartPayment(ctx context.Context, orderID string) (string, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.Order, error)
	CompleteOrder(ctx context.Context, orderID string, billing *domain.BillingInfo) (bool, error)
	FailOrder(ctx context.Context, orderID string) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateOrderInput struct {
	TierID   int64  `json:"tier_id"`
	Quantity int    `json:"quantity"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type OrderService struct {
	orders             repository.OrderRepository
	tiers              repository.TierRepository
	gateway            payment.Gateway
	producer           Producer
	notificationsTopic string
	baseURL            string
	environment        string
	currency           string
	sessionTTL         time.Duration
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	tiers repository.TierRepository,
	gateway payment.Gateway,
	producer Producer,
	baseURL, environment, currency string,
	sessionTTL time.Duration,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		orders:      orders,
		tiers:       tiers,
		gateway:     gateway,
		producer:    producer,
		baseURL:     baseURL,
		environment: environment,
		currency:    currency,
		sessionTTL:  sessionTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder reserves inventory and creates a pending order. The repository
// does both inside one transaction, so a failed reservation leaves nothing
// behind and the price the buyer will be charged is frozen at this point.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if input.FullName == "" {
		return nil, errors.New("full name is required")
	}

	order := &domain.Order{
		ID:       uuid.NewString(),
		TierID:   input.TierID,
		Quantity: input.Quantity,
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
	}

	if err := s.orders.CreatePending(ctx, order); err != nil {
		if errors.Is(err, domain.ErrInsufficientInventory) {
			monitoring.RecordInsufficientInventory()
		}
		return nil, err
	}

	monitoring.RecordOrderCreated()
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// StartPayment asks the gateway for a hosted checkout session for a pending
// order and returns the URL to redirect the buyer to. A gateway error is
// treated as a payment failure: the order is failed and its inventory
// restocked before the error surfaces.
func (s *OrderService) StartPayment(ctx context.Context, orderID string) (string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Status != domain.OrderStatusPending {
		return "", domain.ErrOrderNotPending
	}

	productName := s.productName(ctx, order.TierID)

	session, err := s.gateway.CreateSession(ctx, payment.SessionParams{
		AmountMinor: order.PriceAtPurchase.Shift(2).IntPart(),
		Currency:    s.currency,
		ProductName: productName,
		Quantity:    order.Quantity,
		OrderID:     order.ID,
		Environment: s.environment,
		SuccessURL:  s.baseURL + "/payments/success?order_id=" + order.ID,
		CancelURL:   s.baseURL + "/payments/cancel?order_id=" + order.ID,
		ExpiresAt:   time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		log.Printf("gateway session creation failed for order %s: %v", order.ID, err)
		if _, failErr := s.FailOrder(ctx, order.ID); failErr != nil {
			log.Printf("CRITICAL: failed to restock order %s after gateway error: %v", order.ID, failErr)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGatewaySession, err)
	}

	if err := s.orders.SetPaymentSession(ctx, order.ID, session.ID); err != nil {
		return "", err
	}
	return session.RedirectURL, nil
}

// CancelOrder is the user-facing cancel action. It shares the fail path with
// the webhook handler, so whichever arrives first performs the restock and
// the other sees a terminal order and no-ops.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if _, err := s.FailOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// CompleteOrder resolves a pending order as paid: the repository's
// compare-and-set decides a single winner, and only the winner stores the
// billing snapshot, mints tickets, and publishes the notification. Callers
// replaying a webhook get won=false and no side effects.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID string, billing *domain.BillingInfo) (bool, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}

	minted, err := tickets.Mint(order)
	if err != nil {
		return false, err
	}

	won, err := s.orders.Complete(ctx, order.ID, billing, minted)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	monitoring.RecordOrderResolved(string(domain.OrderStatusCompleted))
	monitoring.RecordTicketsIssued(len(minted))

	s.notifyTicketsIssued(ctx, order, minted)
	return true, nil
}

// FailOrder resolves a pending order as failed and restocks its inventory.
// Idempotent: repeat calls and calls on completed orders change nothing.
func (s *OrderService) FailOrder(ctx context.Context, orderID string) (bool, error) {
	won, err := s.orders.Fail(ctx, orderID)
	if err != nil {
		return false, err
	}
	if won {
		monitoring.RecordOrderResolved(string(domain.OrderStatusFailed))
	}
	return won, nil
}

// notifyTicketsIssued publishes the email notification for freshly minted
// tickets. The tickets are already committed and redeemable, so delivery
// problems are logged and swallowed; a resend is the recovery path.
func (s *OrderService) notifyTicketsIssued(ctx context.Context, order *domain.Order, minted []domain.Ticket) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}

	codes := make([]string, 0, len(minted))
	for _, t := range minted {
		codes = append(codes, t.Code)
	}

	event := kafka.TicketsIssuedEvent{
		OrderID:  order.ID,
		FullName: order.FullName,
		Email:    order.Email,
		Codes:    codes,
		IssuedAt: time.Now(),
	}
	if tier, err := s.tiers.GetTier(ctx, order.TierID); err == nil {
		event.Category = tier.Category
		if ev, err := s.tiers.GetEvent(ctx, tier.EventID); err == nil {
			event.EventTitle = ev.Title
		}
	}

	if err := s.producer.Publish(ctx, s.notificationsTopic, order.ID, event); err != nil {
		log.Printf("WARNING: failed to publish tickets_issued event for order %s: %v", order.ID, err)
	}
}

func (s *OrderService) productName(ctx context.Context, tierID int64) string {
	tier, err := s.tiers.GetTier(ctx, tierID)
	if err != nil {
		return "Event ticket"
	}
	ev, err := s.tiers.GetEvent(ctx, tier.EventID)
	if err != nil {
		return tier.Category
	}
	return fmt.Sprintf("%s - %s", ev.Title, tier.Category)
}

var _ OrderUseCase = (*OrderService)(nil)
