package service

import (
	"context"
	"fmt"
	"net/http"

	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports"
	"blended-settlement/pkg/apperror"
	"blended-settlement/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. It is the single mutation
// path for Customer.Balance: every change goes through UpdateCredit, which
// holds the per-customer mutation guard across the read-modify-write round
// trip. That guard is a correctness requirement, not an optimization: the
// balance is persisted through an external round trip, and two interleaved
// updates would silently lose one of the deltas.
type LedgerServiceImpl struct {
	customers ports.CustomerRepository
	guard     ports.MutationGuard
	coupons   ports.CouponResolver

	maxPositive decimal.Decimal
	maxNegative decimal.Decimal // expressed positive: balance may not go below -maxNegative

	log zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl with the configured limits.
func NewLedgerService(
	customers ports.CustomerRepository,
	guard ports.MutationGuard,
	coupons ports.CouponResolver,
	maxPositive decimal.Decimal,
	maxNegative decimal.Decimal,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		customers:   customers,
		guard:       guard,
		coupons:     coupons,
		maxPositive: maxPositive,
		maxNegative: maxNegative,
		log:         log,
	}
}

// AllowCredit toggles whether new authorizations may drive this customer's
// balance negative. The current balance is untouched.
func (s *LedgerServiceImpl) AllowCredit(ctx context.Context, customerID uuid.UUID, enabled bool) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrNotFound("customer")
	}

	if err := s.customers.UpdateCreditAllowed(ctx, customerID, enabled); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update credit allowed: %w", err))
	}
	customer.CreditAllowed = enabled

	s.log.Info().
		Str("customer_id", customerID.String()).
		Bool("credit_allowed", enabled).
		Msg("credit allowance toggled")

	return customer, nil
}

// UpdateCredit atomically applies delta to the customer's balance. It fails
// without any partial effect when the resulting balance would violate a
// configured limit, and fails fast when another update for the same customer
// is already in flight.
func (s *LedgerServiceImpl) UpdateCredit(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (*domain.Customer, error) {
	if delta.IsZero() {
		return nil, apperror.Validation("Credit delta must be a nonzero amount")
	}

	acquired, err := s.guard.Acquire(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("acquire ledger guard: %w", err))
	}
	if !acquired {
		return nil, apperror.ErrLedgerBusy()
	}
	defer func() {
		if err := s.guard.Release(ctx, customerID); err != nil {
			s.log.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to release ledger guard")
		}
	}()

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrNotFound("customer")
	}

	newBalance := money.RoundCents(customer.Balance.Add(delta))
	if newBalance.GreaterThan(s.maxPositive) {
		return nil, apperror.ErrCreditLimitExceeded(s.maxPositive.String())
	}
	if newBalance.LessThan(s.maxNegative.Neg()) {
		return nil, apperror.ErrNegativeCreditLimitExceeded(s.maxNegative.String())
	}

	if err := s.customers.UpdateBalance(ctx, customerID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist balance: %w", err))
	}
	customer.Balance = newBalance

	s.log.Info().
		Str("customer_id", customerID.String()).
		Str("delta", delta.String()).
		Str("balance", newBalance.String()).
		Msg("credit updated")

	return customer, nil
}

// GrantCredit is an explicit top-up; the amount must be strictly positive.
func (s *LedgerServiceImpl) GrantCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*domain.Customer, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrCreditMustBePositive()
	}
	return s.UpdateCredit(ctx, customerID, amount)
}

// ApplyCoupon resolves an external coupon reference and credits its value,
// subject to the same guard and limits as any other credit mutation.
func (s *LedgerServiceImpl) ApplyCoupon(ctx context.Context, customerID uuid.UUID, couponRef string) (*domain.Customer, error) {
	value, err := s.coupons.Resolve(ctx, couponRef)
	if err != nil {
		return nil, apperror.Wrap("VAL_001", "Coupon could not be resolved", http.StatusBadRequest, err)
	}
	if !value.IsPositive() {
		return nil, apperror.ErrCreditMustBePositive()
	}

	customer, err := s.UpdateCredit(ctx, customerID, value)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("customer_id", customerID.String()).
		Str("coupon", couponRef).
		Str("value", value.String()).
		Msg("coupon applied")

	return customer, nil
}
