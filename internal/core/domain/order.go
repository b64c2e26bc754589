package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the persisted record a transaction can be rehydrated from.
// TransactionRef is either a provider-side id or a compact ledger reference
// (see EncodeLedgerRef); Issuer records which funding instrument created it.
type Order struct {
	ID             uuid.UUID         `json:"id"`
	OrderID        string            `json:"order_id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	Status         TransactionStatus `json:"status"`
	TransactionRef string            `json:"transaction_ref"`
	Issuer         PaymentMethodKind `json:"issuer"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
