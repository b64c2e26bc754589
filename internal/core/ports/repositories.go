package ports

import (
	"context"

	"blended-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines persistence for customer records. Fetch-and-replace
// semantics suffice; the single-customer mutation guard serializes writes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByUID(ctx context.Context, uid string) (*domain.Customer, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	UpdateCreditAllowed(ctx context.Context, id uuid.UUID, allowed bool) error
}

// OrderRepository defines persistence for transaction-bearing order records.
type OrderRepository interface {
	Upsert(ctx context.Context, order *domain.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	GetByTransactionRef(ctx context.Context, ref string) (*domain.Order, error)
}

// APIClientRepository defines persistence for caller accounts.
type APIClientRepository interface {
	Create(ctx context.Context, client *domain.APIClient) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.APIClient, error)
	GetByUsername(ctx context.Context, username string) (*domain.APIClient, error)
}

// MutationGuard enforces at most one in-flight credit mutation per customer.
// Acquire returns false when another mutation holds the guard; callers must
// fail fast rather than queue. Release clears the guard on completion or
// failure of the guarded section.
type MutationGuard interface {
	Acquire(ctx context.Context, customerID uuid.UUID) (bool, error)
	Release(ctx context.Context, customerID uuid.UUID) error
}

// EventPublisher emits transaction lifecycle events. Delivery is best-effort
// and must never block or fail a settlement.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}
