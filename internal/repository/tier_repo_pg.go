package repository

import (
	"context"
	"errors"

	"github.com/eventix/eventix/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TierRepository interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetTier(ctx context.Context, id int64) (*domain.TicketTier, error)
	CreateTier(ctx context.Context, tier *domain.TicketTier) error
	DeleteTier(ctx context.Context, id int64) error
	UpdateTierPrice(ctx context.Context, id int64, price decimal.Decimal) error
}

type PGTierRepository struct {
	db *pgxpool.Pool
}

func NewTierRepository(db *pgxpool.Pool) TierRepository {
	return &PGTierRepository{db: db}
}

func (r *PGTierRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, location, starts_at, created_at, updated_at FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		tiers, err := r.tiersForEvent(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Tiers = tiers
	}
	return events, nil
}

func (r *PGTierRepository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT id, title, description, location, starts_at, created_at, updated_at FROM events WHERE id=$1`, id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	tiers, err := r.tiersForEvent(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Tiers = tiers
	return &e, nil
}

func (r *PGTierRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	return r.db.QueryRow(ctx, `INSERT INTO events (title, description, location, starts_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`, event.Title, event.Description, event.Location, event.StartsAt).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *PGTierRepository) GetTier(ctx context.Context, id int64) (*domain.TicketTier, error) {
	row := r.db.QueryRow(ctx, `SELECT id, event_id, category, price::text, availability, created_at, updated_at FROM ticket_tiers WHERE id=$1`, id)
	return scanTier(row)
}

func (r *PGTierRepository) CreateTier(ctx context.Context, tier *domain.TicketTier) error {
	err := r.db.QueryRow(ctx, `INSERT INTO ticket_tiers (event_id, category, price, availability)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`, tier.EventID, tier.Category, tier.Price.StringFixed(2), tier.Availability).
		Scan(&tier.ID, &tier.CreatedAt, &tier.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return domain.ErrTierExists
			case "23503":
				return domain.ErrEventNotFound
			}
		}
		return err
	}
	return nil
}

// DeleteTier rejects deletion of a tier that any order or ticket still
// references; the RESTRICT foreign keys surface as ErrTierInUse.
func (r *PGTierRepository) DeleteTier(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ticket_tiers WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrTierInUse
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTierNotFound
	}
	return nil
}

func (r *PGTierRepository) UpdateTierPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	cmd, err := r.db.Exec(ctx, `UPDATE ticket_tiers SET price=$1, updated_at=now() WHERE id=$2`, price.StringFixed(2), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTierNotFound
	}
	return nil
}

func (r *PGTierRepository) tiersForEvent(ctx context.Context, eventID int64) ([]domain.TicketTier, error) {
	rows, err := r.db.Query(ctx, `SELECT id, event_id, category, price::text, availability, created_at, updated_at FROM ticket_tiers WHERE event_id=$1 ORDER BY category`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := make([]domain.TicketTier, 0)
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *t)
	}
	return tiers, rows.Err()
}

func scanTier(row pgx.Row) (*domain.TicketTier, error) {
	var t domain.TicketTier
	var price string
	if err := row.Scan(&t.ID, &t.EventID, &t.Category, &price, &t.Availability, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTierNotFound
		}
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	t.Price = p
	return &t, nil
}

var _ TierRepository = (*PGTierRepository)(nil)
