package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"blended-settlement/config"
	"blended-settlement/internal/core/ports"

	"github.com/rs/zerolog"
)

// Client implements ports.ProviderAdapter against the payment provider's
// REST API. Amounts cross this boundary as integer minor units only.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a provider API client.
func NewClient(cfg config.ProviderConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

type authorizationPayload struct {
	AmountMinor      int64             `json:"amount_minor"`
	Currency         string            `json:"currency"`
	CustomerRef      string            `json:"customer_ref,omitempty"`
	PaymentMethodRef string            `json:"payment_method_ref,omitempty"`
	TransferGroup    string            `json:"transfer_group,omitempty"`
	CaptureMode      string            `json:"capture_mode"`
	Shipping         map[string]string `json:"shipping,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type capturePayload struct {
	AmountMinor int64 `json:"amount_minor"`
}

type refundPayload struct {
	AuthorizationRef string            `json:"authorization_ref"`
	AmountMinor      *int64            `json:"amount_minor,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type metadataPayload struct {
	Metadata map[string]string `json:"metadata"`
}

// providerErrorBody is the provider's error envelope.
type providerErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateAuthorization opens a hold on funds.
func (c *Client) CreateAuthorization(ctx context.Context, req ports.AuthorizationRequest) (*ports.ProviderTxn, error) {
	payload := authorizationPayload{
		AmountMinor:      req.AmountMinor,
		Currency:         req.Currency,
		CustomerRef:      req.CustomerRef,
		PaymentMethodRef: req.PaymentMethodRef,
		TransferGroup:    req.TransferGroup,
		CaptureMode:      string(req.CaptureMode),
		Shipping:         req.Shipping,
		Metadata:         req.Metadata,
	}
	var out ports.ProviderTxn
	if err := c.do(ctx, http.MethodPost, "/v1/authorizations", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaptureAuthorization settles amountMinor against the hold.
func (c *Client) CaptureAuthorization(ctx context.Context, providerRef string, amountMinor int64) (*ports.ProviderTxn, error) {
	var out ports.ProviderTxn
	path := "/v1/authorizations/" + providerRef + "/capture"
	if err := c.do(ctx, http.MethodPost, path, capturePayload{AmountMinor: amountMinor}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelAuthorization voids the hold.
func (c *Client) CancelAuthorization(ctx context.Context, providerRef string) (*ports.ProviderTxn, error) {
	var out ports.ProviderTxn
	path := "/v1/authorizations/" + providerRef + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRefund refunds amountMinor, or everything refundable when nil.
func (c *Client) CreateRefund(ctx context.Context, providerRef string, amountMinor *int64, metadata map[string]string) (*ports.ProviderRefund, error) {
	payload := refundPayload{
		AuthorizationRef: providerRef,
		AmountMinor:      amountMinor,
		Metadata:         metadata,
	}
	var out ports.ProviderRefund
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Retrieve fetches the live provider record.
func (c *Client) Retrieve(ctx context.Context, providerRef string) (*ports.ProviderTxn, error) {
	var out ports.ProviderTxn
	if err := c.do(ctx, http.MethodGet, "/v1/authorizations/"+providerRef, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMetadata merges metadata into the provider record.
func (c *Client) UpdateMetadata(ctx context.Context, providerRef string, metadata map[string]string) (*ports.ProviderTxn, error) {
	var out ports.ProviderTxn
	path := "/v1/authorizations/" + providerRef + "/metadata"
	if err := c.do(ctx, http.MethodPost, path, metadataPayload{Metadata: metadata}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal provider request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.decodeError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// decodeError maps the provider's error envelope onto ProviderCallError so
// the service layer can translate decline codes. A body that does not parse
// still yields a typed error carrying the HTTP status.
func (c *Client) decodeError(status int, raw []byte) error {
	var body providerErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Code != "" {
		c.log.Debug().
			Str("code", body.Error.Code).
			Int("status", status).
			Msg("provider call failed")
		return &ports.ProviderCallError{Code: body.Error.Code, Message: body.Error.Message}
	}
	return fmt.Errorf("provider returned status %d: %s", status, raw)
}
