package repository

import (
	"context"
	"errors"

	"github.com/eventix/eventix/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	CreatePending(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	Complete(ctx context.Context, id string, billing *domain.BillingInfo, tickets []domain.Ticket) (bool, error)
	Fail(ctx context.Context, id string) (bool, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

// CreatePending reserves inventory and creates the order in one transaction.
// The tier row is locked for the duration, so two buyers racing for the last
// unit serialize here: one commits, the other sees ErrInsufficientInventory.
// The unit price is snapshotted from the locked row into the order.
func (r *PGOrderRepository) CreatePending(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var price string
	var available int
	err = tx.QueryRow(ctx, `SELECT price::text, availability FROM ticket_tiers WHERE id=$1 FOR UPDATE`, order.TierID).
		Scan(&price, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTierNotFound
		}
		return err
	}
	if available < order.Quantity {
		return domain.ErrInsufficientInventory
	}

	if _, err := tx.Exec(ctx, `UPDATE ticket_tiers SET availability = availability - $1, updated_at = now() WHERE id=$2`, order.Quantity, order.TierID); err != nil {
		return err
	}

	unitPrice, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	order.PriceAtPurchase = unitPrice
	order.Status = domain.OrderStatusPending

	if err := tx.QueryRow(ctx, `INSERT INTO orders (id, tier_id, quantity, full_name, email, phone, status, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		order.ID, order.TierID, order.Quantity, order.FullName, order.Email, order.Phone, order.Status, order.PriceAtPurchase.StringFixed(2)).
		Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT id, tier_id, billing_info_id, quantity, full_name, email, phone, status, price_at_purchase::text, payment_session_id, created_at, updated_at FROM orders WHERE id=$1`, id)
	var o domain.Order
	var price string
	if err := row.Scan(&o.ID, &o.TierID, &o.BillingInfoID, &o.Quantity, &o.FullName, &o.Email, &o.Phone, &o.Status, &price, &o.PaymentSessionID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	o.PriceAtPurchase = p
	return &o, nil
}

func (r *PGOrderRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE orders SET payment_session_id=$1, updated_at=now() WHERE id=$2`, sessionID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Complete moves the order from pending to completed and, in the same
// transaction, stores the billing snapshot and mints the tickets. The status
// update is a compare-and-set: if another request already resolved the order,
// no row matches and Complete reports false without touching anything, which
// is what makes webhook replays harmless.
func (r *PGOrderRepository) Complete(ctx context.Context, id string, billing *domain.BillingInfo, tickets []domain.Ticket) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE orders SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`,
		domain.OrderStatusCompleted, id, domain.OrderStatusPending)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.QueryRow(ctx, `INSERT INTO billing_info (full_name, email, phone) VALUES ($1, $2, $3) RETURNING id, created_at`,
		billing.FullName, billing.Email, billing.Phone).
		Scan(&billing.ID, &billing.CreatedAt); err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET billing_info_id=$1 WHERE id=$2`, billing.ID, id); err != nil {
		return false, err
	}

	for i := range tickets {
		t := &tickets[i]
		if err := tx.QueryRow(ctx, `INSERT INTO tickets (id, tier_id, order_id, full_name, email, phone, code, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING issued_at`,
			t.ID, t.TierID, t.OrderID, t.FullName, t.Email, t.Phone, t.Code, t.Status).
			Scan(&t.IssuedAt); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Fail moves the order from pending to failed and restocks the tier in the
// same transaction. The restock is reachable only through this CAS, so a
// cancel racing a webhook credits the inventory exactly once.
func (r *PGOrderRepository) Fail(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var tierID int64
	var quantity int
	err = tx.QueryRow(ctx, `UPDATE orders SET status=$1, updated_at=now() WHERE id=$2 AND status=$3 RETURNING tier_id, quantity`,
		domain.OrderStatusFailed, id, domain.OrderStatusPending).
		Scan(&tierID, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No pending row matched: either the order is already terminal
			// or the id is unknown.
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
				return false, err
			}
			if !exists {
				return false, domain.ErrOrderNotFound
			}
			return false, nil
		}
		return false, err
	}

	if _, err := tx.Exec(ctx, `UPDATE ticket_tiers SET availability = availability + $1, updated_at = now() WHERE id=$2`, quantity, tierID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
