package ports

import (
	"context"
	"fmt"
)

// CaptureMode tells the provider whether to settle immediately.
type CaptureMode string

const (
	CaptureModeManual    CaptureMode = "manual"
	CaptureModeAutomatic CaptureMode = "automatic"
)

// Provider-side transaction statuses.
const (
	ProviderStatusPending        = "pending"
	ProviderStatusRequiresAction = "requires_action"
	ProviderStatusAuthorized     = "authorized"
	ProviderStatusCaptured       = "captured"
	ProviderStatusCanceled       = "canceled"
)

// ProviderTxn is the provider's view of an authorization. All amounts are
// integer minor units.
type ProviderTxn struct {
	Ref              string            `json:"ref"`
	Status           string            `json:"status"`
	AmountMinor      int64             `json:"amount_minor"`
	CapturedMinor    int64             `json:"captured_minor"`
	RefundedMinor    int64             `json:"refunded_minor"`
	Currency         string            `json:"currency"`
	CustomerRef      string            `json:"customer_ref"`
	PaymentMethodRef string            `json:"payment_method_ref"`
	TransferGroup    string            `json:"transfer_group"`
	ClientToken      string            `json:"client_token,omitempty"` // continuation token for requires_action
	Shipping         map[string]string `json:"shipping,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// ProviderRefund is the provider's view of a refund.
type ProviderRefund struct {
	Ref         string `json:"ref"`
	Status      string `json:"status"`
	AmountMinor int64  `json:"amount_minor"`
}

// AuthorizationRequest creates a provider-side hold on funds.
type AuthorizationRequest struct {
	AmountMinor      int64
	Currency         string
	CustomerRef      string
	PaymentMethodRef string
	TransferGroup    string
	CaptureMode      CaptureMode
	Shipping         map[string]string
	Metadata         map[string]string
}

// ProviderAdapter is the contract consumed by the transaction state machine.
// The adapter may retry idempotent reads on its own; it never retries
// authorize/capture/refund.
type ProviderAdapter interface {
	CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*ProviderTxn, error)
	CaptureAuthorization(ctx context.Context, providerRef string, amountMinor int64) (*ProviderTxn, error)
	CancelAuthorization(ctx context.Context, providerRef string) (*ProviderTxn, error)
	// CreateRefund refunds amountMinor, or everything refundable when nil.
	CreateRefund(ctx context.Context, providerRef string, amountMinor *int64, metadata map[string]string) (*ProviderRefund, error)
	Retrieve(ctx context.Context, providerRef string) (*ProviderTxn, error)
	UpdateMetadata(ctx context.Context, providerRef string, metadata map[string]string) (*ProviderTxn, error)
}

// ProviderCallError is a failure reported by the provider, carrying the
// original decline / error code for translation and logging.
type ProviderCallError struct {
	Code    string
	Message string
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}
