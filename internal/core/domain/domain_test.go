package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCustomer_AvailableCredit(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    string
	}{
		{"zero balance", "0", "2.00", "0"},
		{"balance covers amount", "50", "2.00", "2.00"},
		{"amount exceeds balance", "1.50", "2.00", "1.50"},
		{"negative balance never funds", "-47.85", "2.00", "0"},
		{"exact", "40", "40", "40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Customer{Balance: dec(tt.balance)}
			assert.True(t, c.AvailableCredit(dec(tt.amount)).Equal(dec(tt.want)),
				"got %s", c.AvailableCredit(dec(tt.amount)))
		})
	}
}

func TestPaymentMethod_Validate(t *testing.T) {
	tests := []struct {
		name    string
		method  PaymentMethod
		wantErr bool
	}{
		{"card with ref", PaymentMethod{Kind: PaymentMethodCard, ProviderRef: "pm_1"}, false},
		{"card without ref", PaymentMethod{Kind: PaymentMethodCard}, true},
		{"cash balance with ref", PaymentMethod{Kind: PaymentMethodCashBalance, ProviderRef: "pm_2"}, false},
		{"invoice without ref", PaymentMethod{Kind: PaymentMethodInvoice}, false},
		{"unknown kind", PaymentMethod{Kind: "crypto"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.method.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_StateGuards(t *testing.T) {
	tests := []struct {
		status     TransactionStatus
		canCapture bool
		canCancel  bool
		canRefund  bool
		terminal   bool
	}{
		{TransactionStatusPending, false, true, false, false},
		{TransactionStatusRequiresAction, false, true, false, false},
		{TransactionStatusAuthorized, true, true, false, false},
		{TransactionStatusCaptured, false, false, true, false},
		{TransactionStatusPartiallyRefunded, false, false, true, false},
		{TransactionStatusRefunded, false, false, false, true},
		{TransactionStatusCanceled, false, false, false, true},
		{TransactionStatusInvoice, false, false, true, false},
		{TransactionStatusInvoicePaid, false, false, true, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			txn := &Transaction{Status: tt.status}
			assert.Equal(t, tt.canCapture, txn.CanCapture(), "CanCapture")
			assert.Equal(t, tt.canCancel, txn.CanCancel(), "CanCancel")
			assert.Equal(t, tt.canRefund, txn.CanRefund(), "CanRefund")
			assert.Equal(t, tt.terminal, txn.IsTerminal(), "IsTerminal")
		})
	}
}

func TestTransaction_Portions(t *testing.T) {
	txn := &Transaction{
		Amount:         dec("80.00"),
		RefundedAmount: dec("5.80"),
		CreditPortion:  dec("80.00"),
	}
	assert.True(t, txn.Outstanding().Equal(dec("74.20")))
	assert.True(t, txn.ProviderPortion().IsZero())
	assert.True(t, txn.IsPureLedger())

	mixed := &Transaction{
		ProviderRef:   "pi_1",
		Amount:        dec("10.00"),
		CreditPortion: dec("4.00"),
	}
	assert.True(t, mixed.ProviderPortion().Equal(dec("6.00")))
	assert.False(t, mixed.IsPureLedger())
}

func TestDeclineMessage(t *testing.T) {
	msg, ok := DeclineMessage("insufficient_funds")
	assert.True(t, ok)
	assert.Equal(t, "The card has insufficient funds to complete the purchase.", msg)

	msg, ok = DeclineMessage("some_new_code")
	assert.False(t, ok)
	assert.Equal(t, genericDeclineMessage, msg)
}

func TestLedgerRef_RoundTrip(t *testing.T) {
	customerID := uuid.New()
	txn := &Transaction{
		OrderID:        "ORD-1042",
		Amount:         dec("80.00"),
		RefundedAmount: dec("5.80"),
		CustomerID:     customerID,
	}

	ref := EncodeLedgerRef(txn)
	assert.True(t, IsLedgerRef(ref))

	orderID, amount, refunded, gotCustomer, err := DecodeLedgerRef(ref)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1042", orderID)
	assert.True(t, amount.Equal(dec("80.00")))
	assert.True(t, refunded.Equal(dec("5.80")))
	assert.Equal(t, customerID, gotCustomer)
}

func TestLedgerRef_Invalid(t *testing.T) {
	_, _, _, _, err := DecodeLedgerRef("pi_3MtwBwLkdIwHu7ix")
	assert.Error(t, err)

	_, _, _, _, err = DecodeLedgerRef("ORD-1|abc|0|" + uuid.NewString())
	assert.Error(t, err)

	_, _, _, _, err = DecodeLedgerRef("ORD-1|100|0|not-a-uuid")
	assert.Error(t, err)

	assert.False(t, IsLedgerRef("pi_3MtwBwLkdIwHu7ix"))
}

func TestAPIClient_IsActive(t *testing.T) {
	assert.True(t, (&APIClient{Status: APIClientStatusActive}).IsActive())
	assert.False(t, (&APIClient{Status: APIClientStatusSuspended}).IsActive())
}
