package postgres

import (
	"context"
	"errors"
	"fmt"

	"blended-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, order_id, customer_id, status, transaction_ref, issuer, created_at, updated_at`

// Upsert inserts the order record or replaces its mutable fields. The
// transaction ref changes when a pure-ledger snapshot is re-encoded or an
// expired authorization is replaced, so it is part of the update set.
func (r *OrderRepo) Upsert(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (id, order_id, customer_id, status, transaction_ref, issuer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
			transaction_ref = EXCLUDED.transaction_ref,
			issuer = EXCLUDED.issuer,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.OrderID, o.CustomerID, o.Status,
		o.TransactionRef, o.Issuer, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

// GetByOrderID fetches an order by the shop-facing order identifier.
func (r *OrderRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, orderID), "order_id")
}

// GetByTransactionRef fetches an order by its transaction reference.
func (r *OrderRepo) GetByTransactionRef(ctx context.Context, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE transaction_ref = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, ref), "transaction_ref")
}

func (r *OrderRepo) scanOne(row pgx.Row, by string) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(
		&o.ID, &o.OrderID, &o.CustomerID, &o.Status,
		&o.TransactionRef, &o.Issuer, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by %s: %w", by, err)
	}
	return o, nil
}
