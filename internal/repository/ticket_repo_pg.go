package repository

import (
	"context"
	"errors"

	"github.com/eventix/eventix/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.Ticket, error)
	Redeem(ctx context.Context, code string) (*domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT id, tier_id, order_id, full_name, email, phone, code, status, issued_at, used_at FROM tickets WHERE code=$1`, code)
	return scanTicket(row)
}

func (r *PGTicketRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT id, tier_id, order_id, full_name, email, phone, code, status, issued_at, used_at FROM tickets WHERE order_id=$1 ORDER BY issued_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// Redeem marks an issued ticket as used. The status filter makes the update a
// compare-and-set, so scanning the same QR code twice at the gate fails the
// second time with ErrTicketAlreadyUsed.
func (r *PGTicketRepository) Redeem(ctx context.Context, code string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `UPDATE tickets SET status=$1, used_at=now() WHERE code=$2 AND status=$3 RETURNING id, tier_id, order_id, full_name, email, phone, code, status, issued_at, used_at`,
		domain.TicketStatusUsed, code, domain.TicketStatusIssued)
	t, err := scanTicket(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, err
	}

	// No issued row matched: either the code is unknown or already used.
	if _, err := r.GetByCode(ctx, code); err != nil {
		return nil, err
	}
	return nil, domain.ErrTicketAlreadyUsed
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.TierID, &t.OrderID, &t.FullName, &t.Email, &t.Phone, &t.Code, &t.Status, &t.IssuedAt, &t.UsedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
