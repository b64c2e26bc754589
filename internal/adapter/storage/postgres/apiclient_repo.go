package postgres

import (
	"context"
	"errors"
	"fmt"

	"blended-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// APIClientRepo implements ports.APIClientRepository.
type APIClientRepo struct {
	pool Pool
}

// NewAPIClientRepo creates a new APIClientRepo.
func NewAPIClientRepo(pool Pool) *APIClientRepo {
	return &APIClientRepo{pool: pool}
}

const apiClientColumns = `id, name, username, password_hash, status, created_at, updated_at`

// Create inserts a new API client account.
func (r *APIClientRepo) Create(ctx context.Context, c *domain.APIClient) error {
	query := `INSERT INTO api_clients (id, name, username, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Username, c.PasswordHash,
		c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert api client: %w", err)
	}
	return nil
}

// GetByID fetches an API client by its UUID.
func (r *APIClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIClient, error) {
	query := `SELECT ` + apiClientColumns + ` FROM api_clients WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "id")
}

// GetByUsername fetches an API client by username.
func (r *APIClientRepo) GetByUsername(ctx context.Context, username string) (*domain.APIClient, error) {
	query := `SELECT ` + apiClientColumns + ` FROM api_clients WHERE username = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username), "username")
}

func (r *APIClientRepo) scanOne(row pgx.Row, by string) (*domain.APIClient, error) {
	c := &domain.APIClient{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Username, &c.PasswordHash,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api client by %s: %w", by, err)
	}
	return c, nil
}
