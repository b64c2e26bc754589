package service

import (
	"context"
	"errors"
	"testing"

	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports/mocks"
	"blended-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc       *LedgerServiceImpl
	customers *mocks.MockCustomerRepository
	guard     *mocks.MockMutationGuard
	coupons   *mocks.MockCouponResolver
	ctrl      *gomock.Controller
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		customers: mocks.NewMockCustomerRepository(ctrl),
		guard:     mocks.NewMockMutationGuard(ctrl),
		coupons:   mocks.NewMockCouponResolver(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewLedgerService(
		d.customers, d.guard, d.coupons,
		decimal.NewFromInt(150), decimal.NewFromInt(500),
		zerolog.Nop(),
	)
	return d
}

func testCustomer(id uuid.UUID, balance string) *domain.Customer {
	return &domain.Customer{
		ID:       id,
		UID:      "cust-001",
		Balance:  decimal.RequireFromString(balance),
		Currency: "EUR",
	}
}

// ==================== UpdateCredit Tests ====================

func TestLedgerService_UpdateCredit_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
	d.guard.EXPECT().Release(ctx, customerID).Return(nil)
	d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, "40"), nil)
	d.customers.EXPECT().UpdateBalance(ctx, customerID, decEq(decimal.RequireFromString("100"))).Return(nil)

	customer, err := d.svc.UpdateCredit(ctx, customerID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, customer.Balance.Equal(decimal.NewFromInt(100)))
}

func TestLedgerService_UpdateCredit_RoundsToCents(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	// 40 + 9.999 rounds half away from zero to 50.00
	d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
	d.guard.EXPECT().Release(ctx, customerID).Return(nil)
	d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, "40"), nil)
	d.customers.EXPECT().UpdateBalance(ctx, customerID, decEq(decimal.RequireFromString("50"))).Return(nil)

	customer, err := d.svc.UpdateCredit(ctx, customerID, decimal.RequireFromString("9.999"))
	require.NoError(t, err)
	assert.Equal(t, "50", customer.Balance.String())
}

func TestLedgerService_UpdateCredit_ZeroDelta(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.UpdateCredit(context.Background(), uuid.New(), decimal.Zero)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestLedgerService_UpdateCredit_GuardBusy(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.guard.EXPECT().Acquire(ctx, customerID).Return(false, nil)

	_, err := d.svc.UpdateCredit(ctx, customerID, decimal.NewFromInt(10))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONC_001", appErr.Code)
}

func TestLedgerService_UpdateCredit_ReleasesGuardOnLimitError(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
	d.guard.EXPECT().Release(ctx, customerID).Return(nil)
	d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, "100"), nil)

	_, err := d.svc.UpdateCredit(ctx, customerID, decimal.NewFromInt(51))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LIMIT_001", appErr.Code)
	assert.Contains(t, appErr.Message, "150")
}

func TestLedgerService_UpdateCredit_NegativeLimit(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
	d.guard.EXPECT().Release(ctx, customerID).Return(nil)
	d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, "-450"), nil)

	_, err := d.svc.UpdateCredit(ctx, customerID, decimal.NewFromInt(-51))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LIMIT_002", appErr.Code)
	assert.Contains(t, appErr.Message, "500")
}

func TestLedgerService_UpdateCredit_ExactlyAtLimits(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	// Landing exactly on either bound is allowed.
	for _, tc := range []struct {
		balance string
		delta   string
		want    string
	}{
		{"100", "50", "150"},
		{"-400", "-100", "-500"},
	} {
		customerID := uuid.New()
		d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
		d.guard.EXPECT().Release(ctx, customerID).Return(nil)
		d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, tc.balance), nil)
		d.customers.EXPECT().UpdateBalance(ctx, customerID, decEq(decimal.RequireFromString(tc.want))).Return(nil)

		customer, err := d.svc.UpdateCredit(ctx, customerID, decimal.RequireFromString(tc.delta))
		require.NoError(t, err)
		assert.Equal(t, tc.want, customer.Balance.String())
	}
}

func TestLedgerService_UpdateCredit_CustomerNotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
	d.guard.EXPECT().Release(ctx, customerID).Return(nil)
	d.customers.EXPECT().GetByID(ctx, customerID).Return(nil, nil)

	_, err := d.svc.UpdateCredit(ctx, customerID, decimal.NewFromInt(10))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NF_001", appErr.Code)
}

// ==================== GrantCredit Tests ====================

func TestLedgerService_GrantCredit_RejectsNonPositive(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := d.svc.GrantCredit(context.Background(), uuid.New(), amount)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VAL_003", appErr.Code)
	}
}

// ==================== AllowCredit Tests ====================

func TestLedgerService_AllowCredit_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, "0"), nil)
	d.customers.EXPECT().UpdateCreditAllowed(ctx, customerID, true).Return(nil)

	customer, err := d.svc.AllowCredit(ctx, customerID, true)
	require.NoError(t, err)
	assert.True(t, customer.CreditAllowed)
}

func TestLedgerService_AllowCredit_NotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.customers.EXPECT().GetByID(ctx, customerID).Return(nil, nil)

	_, err := d.svc.AllowCredit(ctx, customerID, true)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NF_001", appErr.Code)
}

// ==================== ApplyCoupon Tests ====================

func TestLedgerService_ApplyCoupon_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.coupons.EXPECT().Resolve(ctx, "coupon-10").Return(decimal.NewFromInt(10), nil)
	d.guard.EXPECT().Acquire(ctx, customerID).Return(true, nil)
	d.guard.EXPECT().Release(ctx, customerID).Return(nil)
	d.customers.EXPECT().GetByID(ctx, customerID).Return(testCustomer(customerID, "5"), nil)
	d.customers.EXPECT().UpdateBalance(ctx, customerID, decEq(decimal.RequireFromString("15"))).Return(nil)

	customer, err := d.svc.ApplyCoupon(ctx, customerID, "coupon-10")
	require.NoError(t, err)
	assert.Equal(t, "15", customer.Balance.String())
}

func TestLedgerService_ApplyCoupon_ResolveFails(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.coupons.EXPECT().Resolve(ctx, "bogus").Return(decimal.Zero, errors.New("unknown coupon"))

	_, err := d.svc.ApplyCoupon(ctx, uuid.New(), "bogus")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestLedgerService_ApplyCoupon_NonPositiveValue(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.coupons.EXPECT().Resolve(ctx, "empty").Return(decimal.Zero, nil)

	_, err := d.svc.ApplyCoupon(ctx, uuid.New(), "empty")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_003", appErr.Code)
}
