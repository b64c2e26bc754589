package service

import (
	"blended-settlement/internal/core/domain"
	"blended-settlement/pkg/money"

	"github.com/shopspring/decimal"
)

// settlementPlan records how a requested amount splits across the customer's
// stored credit and the provider. The split is computed once at authorization
// and carried on the transaction so that capture, cancel and refund can
// reverse each side correctly.
type settlementPlan struct {
	CreditPortion   decimal.Decimal
	ProviderPortion decimal.Decimal
	// PureLedger marks a settlement with no provider-side counterpart.
	PureLedger bool
}

// planSettlement decides the funding split for an authorization.
//
// Only positive balances fund purchases. The invoice instrument is the one
// exception: it funds the whole amount from the ledger even when that drives
// the balance negative (the debt limit is enforced by the ledger itself).
func planSettlement(customer *domain.Customer, method domain.PaymentMethod, amount decimal.Decimal) settlementPlan {
	if method.IsInvoice() {
		return settlementPlan{CreditPortion: amount, PureLedger: true}
	}

	available := customer.AvailableCredit(amount)
	if available.Equal(amount) {
		return settlementPlan{CreditPortion: amount, PureLedger: true}
	}

	return settlementPlan{
		CreditPortion:   available,
		ProviderPortion: amount.Sub(available),
	}
}

// refundSplit decides how a refund of amount distributes between the provider
// and the ledger, given how much the provider actually captured and has
// already refunded. The provider gets at most its own remaining captured
// share; the rest goes back onto the customer's balance.
func refundSplit(amount, providerCaptured, providerRefunded decimal.Decimal) (providerShare, creditShare decimal.Decimal) {
	providerRemaining := money.Max(providerCaptured.Sub(providerRefunded), money.Zero)
	providerShare = money.Min(amount, providerRemaining)
	creditShare = amount.Sub(providerShare)
	return providerShare, creditShare
}
