package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds the per-customer stored-value credit state.
// Balance is in major currency units. Positive means the customer has credit
// owed to them; negative means the customer owes the house.
type Customer struct {
	ID            uuid.UUID       `json:"id"`
	UID           string          `json:"uid"`          // caller-issued identity
	ProviderRef   string          `json:"provider_ref"` // provider-side customer id
	CreditAllowed bool            `json:"credit_allowed"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AvailableCredit returns how much of amount the stored balance can fund.
// Only positive balances fund purchases; debt never does.
func (c *Customer) AvailableCredit(amount decimal.Decimal) decimal.Decimal {
	if c.Balance.IsNegative() {
		return decimal.Zero
	}
	if c.Balance.GreaterThan(amount) {
		return amount
	}
	return c.Balance
}
