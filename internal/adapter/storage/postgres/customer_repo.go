package postgres

import (
	"context"
	"errors"
	"fmt"

	"blended-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CustomerRepo implements ports.CustomerRepository.
type CustomerRepo struct {
	pool Pool
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(pool Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `id, uid, provider_ref, credit_allowed, balance, currency, created_at, updated_at`

// Create inserts a new customer into the database.
func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (id, uid, provider_ref, credit_allowed, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.UID, c.ProviderRef, c.CreditAllowed,
		c.Balance, c.Currency, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID fetches a customer by its UUID.
func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "id")
}

// GetByUID fetches a customer by its external uid.
func (r *CustomerRepo) GetByUID(ctx context.Context, uid string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE uid = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, uid), "uid")
}

// UpdateBalance replaces the stored balance. Callers hold the mutation guard,
// so fetch-and-replace is safe here.
func (r *CustomerRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE customers SET balance = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update customer balance: %w", err)
	}
	return nil
}

// UpdateCreditAllowed toggles the negative-balance allowance flag.
func (r *CustomerRepo) UpdateCreditAllowed(ctx context.Context, id uuid.UUID, allowed bool) error {
	query := `UPDATE customers SET credit_allowed = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, query, allowed, id)
	if err != nil {
		return fmt.Errorf("update customer credit_allowed: %w", err)
	}
	return nil
}

func (r *CustomerRepo) scanOne(row pgx.Row, by string) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(
		&c.ID, &c.UID, &c.ProviderRef, &c.CreditAllowed,
		&c.Balance, &c.Currency, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by %s: %w", by, err)
	}
	return c, nil
}
