package postgres

import (
	"context"
	"testing"
	"time"

	"blended-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer() *domain.Customer {
	return &domain.Customer{
		ID:            uuid.New(),
		UID:           "cust-0042",
		ProviderRef:   "cus_" + uuid.New().String()[:8],
		CreditAllowed: true,
		Balance:       decimal.RequireFromString("42.50"),
		Currency:      "EUR",
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func customerRow(c *domain.Customer) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "uid", "provider_ref", "credit_allowed", "balance", "currency", "created_at", "updated_at"}).
		AddRow(c.ID, c.UID, c.ProviderRef, c.CreditAllowed, c.Balance, c.Currency, c.CreatedAt, c.UpdatedAt)
}

func TestCustomerRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepo(mock)
	c := newTestCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WithArgs(c.ID, c.UID, c.ProviderRef, c.CreditAllowed,
			c.Balance, c.Currency, c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepo(mock)
	c := newTestCustomer()

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(c.ID).
		WillReturnRows(customerRow(c))

	got, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.UID, got.UID)
	assert.True(t, got.Balance.Equal(c.Balance))
}

func TestCustomerRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCustomerRepo_GetByUID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepo(mock)
	c := newTestCustomer()

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE uid").
		WithArgs(c.UID).
		WillReturnRows(customerRow(c))

	got, err := repo.GetByUID(context.Background(), c.UID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
}

func TestCustomerRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepo(mock)
	id := uuid.New()
	balance := decimal.RequireFromString("-120.00")

	mock.ExpectExec("UPDATE customers SET balance").
		WithArgs(balance, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateBalance(context.Background(), id, balance)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_UpdateCreditAllowed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE customers SET credit_allowed").
		WithArgs(true, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateCreditAllowed(context.Background(), id, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
