package domain

import "fmt"

// PaymentMethodKind is the closed set of funding instruments.
type PaymentMethodKind string

const (
	// PaymentMethodCard charges the remainder (after credit) to the provider.
	PaymentMethodCard PaymentMethodKind = "card"
	// PaymentMethodInvoice funds the whole amount from the ledger, allowing
	// the balance to go negative up to the configured debt limit.
	PaymentMethodInvoice PaymentMethodKind = "invoice"
	// PaymentMethodCashBalance behaves like card but draws on the provider-side
	// cash balance instrument.
	PaymentMethodCashBalance PaymentMethodKind = "cash_balance"
)

// PaymentMethod is the instrument selected for an authorization.
// ProviderRef is the tokenized provider-side payment method; it is empty for
// the invoice instrument, which never touches the provider.
type PaymentMethod struct {
	Kind        PaymentMethodKind `json:"kind"`
	ProviderRef string            `json:"provider_ref,omitempty"`
}

// Validate checks the kind against the closed set and the reference rules.
func (m PaymentMethod) Validate() error {
	switch m.Kind {
	case PaymentMethodCard, PaymentMethodCashBalance:
		if m.ProviderRef == "" {
			return fmt.Errorf("payment method %q requires a provider reference", m.Kind)
		}
		return nil
	case PaymentMethodInvoice:
		return nil
	default:
		return fmt.Errorf("unknown payment method kind %q", m.Kind)
	}
}

// IsInvoice reports whether this is the pure-ledger debt instrument.
func (m PaymentMethod) IsInvoice() bool {
	return m.Kind == PaymentMethodInvoice
}
