package ports

import (
	"context"
	"time"

	"blended-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// LedgerService is the only way Customer.Balance changes.
type LedgerService interface {
	// AllowCredit toggles whether new authorizations may drive this customer's
	// balance negative. No effect on the current balance.
	AllowCredit(ctx context.Context, customerID uuid.UUID, enabled bool) (*domain.Customer, error)
	// UpdateCredit atomically applies delta to the customer's balance,
	// enforcing the configured limits and the per-customer mutation guard.
	UpdateCredit(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (*domain.Customer, error)
	// GrantCredit is an explicit credit top-up; the amount must be positive.
	GrantCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*domain.Customer, error)
	// ApplyCoupon resolves an external coupon and credits its value.
	ApplyCoupon(ctx context.Context, customerID uuid.UUID, couponRef string) (*domain.Customer, error)
}

// CouponResolver resolves an external discount reference to its value in
// major units. External collaborator.
type CouponResolver interface {
	Resolve(ctx context.Context, couponRef string) (decimal.Decimal, error)
}

// TransactionService drives the authorize/capture/cancel/refund lifecycle.
// Callers must serialize operations on a single transaction; the service
// provides no per-transaction lock (the per-customer ledger guard is separate
// and mandatory).
type TransactionService interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*domain.Transaction, error)
	// Capture settles amount against the authorization identified by ref.
	Capture(ctx context.Context, ref string, amount decimal.Decimal) (*domain.Transaction, error)
	Cancel(ctx context.Context, ref string) (*domain.Transaction, error)
	// Refund reverses amount; nil refunds everything still outstanding.
	Refund(ctx context.Context, ref string, amount *decimal.Decimal) (*domain.Transaction, error)
	// Get rehydrates a transaction from its reference: pure-ledger ones from
	// the compact ledger encoding, provider-backed ones by re-fetching the
	// live provider record.
	Get(ctx context.Context, ref string) (*domain.Transaction, error)
}

// AuthorizeRequest holds validated input for an authorization.
type AuthorizeRequest struct {
	CustomerID    uuid.UUID
	Method        domain.PaymentMethod
	Amount        decimal.Decimal
	OrderID       string
	TransferGroup string
	Description   string
	Shipping      map[string]string
}

// AuthService defines caller authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.APIClient, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for API client registration.
type RegisterRequest struct {
	Name     string
	Username string
	Password string
}

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(clientID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (uuid.UUID, error)
}
