package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending           TransactionStatus = "pending"
	TransactionStatusRequiresAction    TransactionStatus = "requires_action"
	TransactionStatusAuthorized        TransactionStatus = "authorized"
	TransactionStatusCaptured          TransactionStatus = "captured"
	TransactionStatusPartiallyRefunded TransactionStatus = "partially_refunded"
	TransactionStatusRefunded          TransactionStatus = "refunded"
	TransactionStatusCanceled          TransactionStatus = "canceled"
	// TransactionStatusInvoice marks a settled pure-ledger transaction. It is
	// captured-equivalent for all reversal math.
	TransactionStatusInvoice TransactionStatus = "invoice"
	// TransactionStatusInvoicePaid is the legacy alias for a settled
	// pure-ledger transaction, accepted when rehydrating old records.
	TransactionStatusInvoicePaid TransactionStatus = "invoice_paid"
)

// Transaction tracks one economic event against a blend of funding sources.
// Amount and CreditPortion are major currency units; CreditPortion records how
// much of Amount was funded from the customer's stored credit at authorization
// time, which later operations need to reverse the split correctly.
type Transaction struct {
	ID             uuid.UUID         `json:"id"`
	ProviderRef    string            `json:"provider_ref"` // empty for pure-ledger transactions
	Status         TransactionStatus `json:"status"`
	Amount         decimal.Decimal   `json:"amount"`
	RefundedAmount decimal.Decimal   `json:"refunded_amount"`
	CreditPortion  decimal.Decimal   `json:"credit_portion"`
	Currency       string            `json:"currency"`
	OrderID        string            `json:"order_id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	TransferGroup  string            `json:"transfer_group"`
	Description    string            `json:"description"`
	// ContinuationToken carries the provider's client token while the
	// transaction requires out-of-band customer action.
	ContinuationToken string    `json:"continuation_token,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsPureLedger reports whether the transaction is fully funded by stored
// credit, with no provider-side counterpart.
func (t *Transaction) IsPureLedger() bool {
	return t.ProviderRef == ""
}

// IsCaptured reports whether funds have been settled (including the
// pure-ledger settled states).
func (t *Transaction) IsCaptured() bool {
	switch t.Status {
	case TransactionStatusCaptured, TransactionStatusPartiallyRefunded,
		TransactionStatusInvoice, TransactionStatusInvoicePaid:
		return true
	}
	return false
}

// IsTerminal reports whether the transaction reached a final state. Terminal
// transactions are immutable except for bookkeeping fields.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCanceled || t.Status == TransactionStatusRefunded
}

// CanCapture reports whether a capture is valid in the current state.
// A requires_action transaction must be resolved out-of-band first.
func (t *Transaction) CanCapture() bool {
	return t.Status == TransactionStatusAuthorized
}

// CanCancel reports whether cancellation is valid (pre-capture only).
func (t *Transaction) CanCancel() bool {
	switch t.Status {
	case TransactionStatusPending, TransactionStatusRequiresAction, TransactionStatusAuthorized:
		return true
	}
	return false
}

// CanRefund reports whether a refund is valid (post-capture only).
func (t *Transaction) CanRefund() bool {
	return t.IsCaptured()
}

// Outstanding returns the amount still refundable.
func (t *Transaction) Outstanding() decimal.Decimal {
	return t.Amount.Sub(t.RefundedAmount)
}

// ProviderPortion returns the part of Amount funded by the provider.
func (t *Transaction) ProviderPortion() decimal.Decimal {
	return t.Amount.Sub(t.CreditPortion)
}
