package integration

import (
	"context"
	"fmt"
	"sync"

	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- In-Memory Customer Repo ---

type inMemoryCustomerRepo struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*domain.Customer
}

func newInMemoryCustomerRepo() *inMemoryCustomerRepo {
	return &inMemoryCustomerRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (r *inMemoryCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.customers {
		if existing.UID == c.UID {
			return fmt.Errorf("uid already exists")
		}
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *inMemoryCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryCustomerRepo) GetByUID(ctx context.Context, uid string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.UID == uid {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryCustomerRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return fmt.Errorf("customer not found")
	}
	c.Balance = balance
	return nil
}

func (r *inMemoryCustomerRepo) UpdateCreditAllowed(ctx context.Context, id uuid.UUID, allowed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return fmt.Errorf("customer not found")
	}
	c.CreditAllowed = allowed
	return nil
}

// --- In-Memory Order Repo ---

type inMemoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *inMemoryOrderRepo) Upsert(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *inMemoryOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryOrderRepo) GetByTransactionRef(ctx context.Context, ref string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.TransactionRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory API Client Repo ---

type inMemoryAPIClientRepo struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*domain.APIClient
}

func newInMemoryAPIClientRepo() *inMemoryAPIClientRepo {
	return &inMemoryAPIClientRepo{clients: make(map[uuid.UUID]*domain.APIClient)}
}

func (r *inMemoryAPIClientRepo) Create(ctx context.Context, c *domain.APIClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *inMemoryAPIClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryAPIClientRepo) GetByUsername(ctx context.Context, username string) (*domain.APIClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.Username == username {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// --- Fake Provider ---

// fakeProvider is an in-memory ports.ProviderAdapter that mimics the
// authorization lifecycle: holds, captures, voids, refunds, and metadata, all
// in integer minor units. Failure behavior is scripted per reference.
type fakeProvider struct {
	mu      sync.Mutex
	seq     int
	txns    map[string]*ports.ProviderTxn
	expired map[string]bool // capture on these refs fails with authorization_expired once

	declineNextAuth string // decline code for the next CreateAuthorization
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		txns:    make(map[string]*ports.ProviderTxn),
		expired: make(map[string]bool),
	}
}

func (p *fakeProvider) expireAuthorization(ref string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expired[ref] = true
}

func (p *fakeProvider) get(ref string) (*ports.ProviderTxn, error) {
	txn, ok := p.txns[ref]
	if !ok {
		return nil, &ports.ProviderCallError{Code: "resource_missing", Message: "No such authorization: " + ref}
	}
	return txn, nil
}

func (p *fakeProvider) CreateAuthorization(ctx context.Context, req ports.AuthorizationRequest) (*ports.ProviderTxn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.declineNextAuth != "" {
		code := p.declineNextAuth
		p.declineNextAuth = ""
		return nil, &ports.ProviderCallError{Code: code, Message: "Declined by fake provider."}
	}

	p.seq++
	txn := &ports.ProviderTxn{
		Ref:              fmt.Sprintf("pi_fake_%d", p.seq),
		Status:           ports.ProviderStatusAuthorized,
		AmountMinor:      req.AmountMinor,
		Currency:         req.Currency,
		CustomerRef:      req.CustomerRef,
		PaymentMethodRef: req.PaymentMethodRef,
		TransferGroup:    req.TransferGroup,
		Shipping:         copyMap(req.Shipping),
		Metadata:         copyMap(req.Metadata),
	}
	p.txns[txn.Ref] = txn
	cp := *txn
	return &cp, nil
}

func (p *fakeProvider) CaptureAuthorization(ctx context.Context, ref string, amountMinor int64) (*ports.ProviderTxn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.expired[ref] {
		delete(p.expired, ref)
		return nil, &ports.ProviderCallError{Code: "authorization_expired", Message: "The authorization has expired."}
	}

	txn, err := p.get(ref)
	if err != nil {
		return nil, err
	}
	if txn.Status != ports.ProviderStatusAuthorized {
		return nil, &ports.ProviderCallError{Code: "invalid_state", Message: "Only authorized holds can be captured."}
	}
	if amountMinor > txn.AmountMinor {
		return nil, &ports.ProviderCallError{Code: "amount_too_large", Message: "Capture exceeds the hold."}
	}
	txn.Status = ports.ProviderStatusCaptured
	txn.CapturedMinor = amountMinor
	cp := *txn
	return &cp, nil
}

func (p *fakeProvider) CancelAuthorization(ctx context.Context, ref string) (*ports.ProviderTxn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.get(ref)
	if err != nil {
		return nil, err
	}
	if txn.Status == ports.ProviderStatusCaptured {
		return nil, &ports.ProviderCallError{Code: "invalid_state", Message: "Captured holds cannot be voided."}
	}
	txn.Status = ports.ProviderStatusCanceled
	cp := *txn
	return &cp, nil
}

func (p *fakeProvider) CreateRefund(ctx context.Context, ref string, amountMinor *int64, metadata map[string]string) (*ports.ProviderRefund, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.get(ref)
	if err != nil {
		return nil, err
	}
	if txn.Status != ports.ProviderStatusCaptured {
		return nil, &ports.ProviderCallError{Code: "invalid_state", Message: "Only captured funds can be refunded."}
	}

	refundable := txn.CapturedMinor - txn.RefundedMinor
	amount := refundable
	if amountMinor != nil {
		amount = *amountMinor
	}
	if amount > refundable {
		return nil, &ports.ProviderCallError{Code: "amount_too_large", Message: "Refund exceeds the captured amount."}
	}
	txn.RefundedMinor += amount

	p.seq++
	return &ports.ProviderRefund{
		Ref:         fmt.Sprintf("re_fake_%d", p.seq),
		Status:      "succeeded",
		AmountMinor: amount,
	}, nil
}

func (p *fakeProvider) Retrieve(ctx context.Context, ref string) (*ports.ProviderTxn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.get(ref)
	if err != nil {
		return nil, err
	}
	cp := *txn
	cp.Metadata = copyMap(txn.Metadata)
	return &cp, nil
}

func (p *fakeProvider) UpdateMetadata(ctx context.Context, ref string, metadata map[string]string) (*ports.ProviderTxn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.get(ref)
	if err != nil {
		return nil, err
	}
	if txn.Metadata == nil {
		txn.Metadata = make(map[string]string)
	}
	for k, v := range metadata {
		txn.Metadata[k] = v
	}
	cp := *txn
	cp.Metadata = copyMap(txn.Metadata)
	return &cp, nil
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
