package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports"
	"blended-settlement/pkg/apperror"
	"blended-settlement/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Provider metadata keys used to reproduce the funding split when a
// transaction is rehydrated from the live provider record.
const (
	metaOrderID             = "order_id"
	metaCustomerID          = "customer_id"
	metaCreditPortionMinor  = "credit_portion_minor"
	metaCreditRefundedMinor = "credit_refunded_minor"
)

// TransactionServiceImpl implements ports.TransactionService.
//
// Callers must serialize operations on a single transaction; the service only
// guarantees the per-customer ledger guard. Any step that debits the ledger
// and then calls the provider (or vice versa) rolls the first side back when
// the second fails, so a failed operation never leaves the two sides
// inconsistent.
type TransactionServiceImpl struct {
	customers ports.CustomerRepository
	orders    ports.OrderRepository
	ledger    ports.LedgerService
	provider  ports.ProviderAdapter
	events    ports.EventPublisher

	maxAmount decimal.Decimal
	currency  string
	log       zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	customers ports.CustomerRepository,
	orders ports.OrderRepository,
	ledger ports.LedgerService,
	provider ports.ProviderAdapter,
	events ports.EventPublisher,
	maxAmount decimal.Decimal,
	currency string,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		customers: customers,
		orders:    orders,
		ledger:    ledger,
		provider:  provider,
		events:    events,
		maxAmount: maxAmount,
		currency:  currency,
		log:       log,
	}
}

// Authorize splits the requested amount between stored credit and the
// provider, debits the ledger for the credit share, and creates a provider
// authorization for the remainder. A fully credit-funded amount never touches
// the provider.
func (s *TransactionServiceImpl) Authorize(ctx context.Context, req ports.AuthorizeRequest) (*domain.Transaction, error) {
	amount := money.RoundCents(req.Amount)
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if amount.GreaterThan(s.maxAmount) {
		return nil, apperror.ErrAmountLimitExceeded(s.maxAmount.String())
	}
	if err := req.Method.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if req.OrderID == "" {
		return nil, apperror.Validation("Order id is required")
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrNotFound("customer")
	}

	// Invoice purchases may create debt only for customers cleared for it.
	if req.Method.IsInvoice() && !customer.CreditAllowed && customer.Balance.Sub(amount).IsNegative() {
		return nil, apperror.Validation("Customer is not allowed to pay by invoice")
	}

	plan := planSettlement(customer, req.Method, amount)

	if plan.PureLedger {
		return s.authorizeLedger(ctx, customer, req, amount)
	}
	return s.authorizeBlended(ctx, customer, req, amount, plan)
}

// authorizeLedger settles the whole amount from the ledger and synthesizes a
// transaction with no provider counterpart.
func (s *TransactionServiceImpl) authorizeLedger(ctx context.Context, customer *domain.Customer, req ports.AuthorizeRequest, amount decimal.Decimal) (*domain.Transaction, error) {
	if _, err := s.ledger.UpdateCredit(ctx, customer.ID, amount.Neg()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		Status:        domain.TransactionStatusAuthorized,
		Amount:        amount,
		CreditPortion: amount,
		Currency:      s.currency,
		OrderID:       req.OrderID,
		CustomerID:    customer.ID,
		TransferGroup: req.TransferGroup,
		Description:   req.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.saveOrder(ctx, txn, req.Method.Kind); err != nil {
		// The ledger debit committed; undo it before surfacing the error.
		if _, rbErr := s.ledger.UpdateCredit(ctx, customer.ID, amount); rbErr != nil {
			s.log.Error().Err(rbErr).
				Str("customer_id", customer.ID.String()).
				Str("amount", amount.String()).
				Msg("ledger rollback failed after order persist error")
		}
		return nil, err
	}

	s.publishEvent(ctx, "transaction.authorized", txn)
	s.log.Info().
		Str("order_id", txn.OrderID).
		Str("amount", amount.String()).
		Msg("pure-ledger authorization created")

	return txn, nil
}

// authorizeBlended debits the credit share (if any) and opens a provider
// authorization for the remainder. The ledger debit is rolled back when the
// provider declines; partial commit is not an acceptable end state.
func (s *TransactionServiceImpl) authorizeBlended(ctx context.Context, customer *domain.Customer, req ports.AuthorizeRequest, amount decimal.Decimal, plan settlementPlan) (*domain.Transaction, error) {
	if plan.CreditPortion.IsPositive() {
		if _, err := s.ledger.UpdateCredit(ctx, customer.ID, plan.CreditPortion.Neg()); err != nil {
			return nil, err
		}
	}

	pt, err := s.provider.CreateAuthorization(ctx, ports.AuthorizationRequest{
		AmountMinor:      money.ToMinorUnits(plan.ProviderPortion),
		Currency:         s.currency,
		CustomerRef:      customer.ProviderRef,
		PaymentMethodRef: req.Method.ProviderRef,
		TransferGroup:    req.TransferGroup,
		CaptureMode:      ports.CaptureModeManual,
		Shipping:         req.Shipping,
		Metadata: map[string]string{
			metaOrderID:            req.OrderID,
			metaCustomerID:         customer.ID.String(),
			metaCreditPortionMinor: strconv.FormatInt(money.ToMinorUnits(plan.CreditPortion), 10),
		},
	})
	if err != nil {
		if plan.CreditPortion.IsPositive() {
			if _, rbErr := s.ledger.UpdateCredit(ctx, customer.ID, plan.CreditPortion); rbErr != nil {
				s.log.Error().Err(rbErr).
					Str("customer_id", customer.ID.String()).
					Str("credit_portion", plan.CreditPortion.String()).
					Msg("ledger rollback failed after provider decline")
			}
		}
		return nil, s.translateProviderError(err)
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                uuid.New(),
		ProviderRef:       pt.Ref,
		Status:            statusFromProvider(pt.Status),
		Amount:            amount,
		CreditPortion:     plan.CreditPortion,
		Currency:          s.currency,
		OrderID:           req.OrderID,
		CustomerID:        customer.ID,
		TransferGroup:     req.TransferGroup,
		Description:       req.Description,
		ContinuationToken: pt.ClientToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.saveOrder(ctx, txn, req.Method.Kind); err != nil {
		// Both sides already committed; undo them or the customer loses the
		// credit share and the provider hold is orphaned.
		if _, cancelErr := s.provider.CancelAuthorization(ctx, pt.Ref); cancelErr != nil {
			s.log.Error().Err(cancelErr).
				Str("provider_ref", pt.Ref).
				Msg("provider void failed after order persist error")
		}
		if plan.CreditPortion.IsPositive() {
			if _, rbErr := s.ledger.UpdateCredit(ctx, customer.ID, plan.CreditPortion); rbErr != nil {
				s.log.Error().Err(rbErr).
					Str("customer_id", customer.ID.String()).
					Str("credit_portion", plan.CreditPortion.String()).
					Msg("ledger rollback failed after order persist error")
			}
		}
		return nil, err
	}

	s.publishEvent(ctx, "transaction.authorized", txn)
	s.log.Info().
		Str("order_id", txn.OrderID).
		Str("provider_ref", pt.Ref).
		Str("amount", amount.String()).
		Str("credit_portion", plan.CreditPortion.String()).
		Msg("blended authorization created")

	return txn, nil
}

// Capture settles amount against the authorization identified by ref.
// Capturing less than the authorized amount early-releases the remainder:
// provider-side by the partial capture itself, ledger-side by restoring the
// unused credit.
func (s *TransactionServiceImpl) Capture(ctx context.Context, ref string, amount decimal.Decimal) (*domain.Transaction, error) {
	amount = money.RoundCents(amount)
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	txn, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.TransactionStatusCanceled {
		return nil, apperror.State("Impossible to capture canceled transaction")
	}
	if !txn.CanCapture() {
		return nil, apperror.ErrNotCapturable(string(txn.Status))
	}
	if amount.GreaterThan(txn.Amount) {
		return nil, apperror.ErrCaptureExceedsAuthorized()
	}

	if txn.IsPureLedger() {
		return s.captureLedger(ctx, txn, amount)
	}
	return s.captureProvider(ctx, txn, amount)
}

// captureLedger settles a pure-ledger authorization. The unused remainder of
// the authorized amount goes straight back onto the balance; the settled
// snapshot keeps it as refunded bookkeeping.
func (s *TransactionServiceImpl) captureLedger(ctx context.Context, txn *domain.Transaction, amount decimal.Decimal) (*domain.Transaction, error) {
	release := txn.Amount.Sub(amount)
	if release.IsPositive() {
		if _, err := s.ledger.UpdateCredit(ctx, txn.CustomerID, release); err != nil {
			return nil, err
		}
	}

	txn.Status = domain.TransactionStatusInvoice
	txn.RefundedAmount = release
	txn.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(ctx, txn, domain.PaymentMethodInvoice); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "transaction.captured", txn)
	s.log.Info().
		Str("order_id", txn.OrderID).
		Str("captured", amount.String()).
		Str("released", release.String()).
		Msg("pure-ledger capture settled")

	return txn, nil
}

func (s *TransactionServiceImpl) captureProvider(ctx context.Context, txn *domain.Transaction, amount decimal.Decimal) (*domain.Transaction, error) {
	creditCaptured := money.Min(txn.CreditPortion, amount)
	release := txn.CreditPortion.Sub(creditCaptured)

	if !amount.Equal(txn.CreditPortion) {
		// The provider never captures zero: at least one minor unit.
		providerMinor := money.ToMinorUnits(amount) - money.ToMinorUnits(txn.CreditPortion)
		if providerMinor < 1 {
			providerMinor = 1
		}

		pt, err := s.provider.CaptureAuthorization(ctx, txn.ProviderRef, providerMinor)
		if err != nil {
			pt, err = s.recaptureExpired(ctx, txn, providerMinor, err)
			if err != nil {
				return nil, err
			}
		}
		txn.ProviderRef = pt.Ref
	}

	if release.IsPositive() {
		if _, err := s.ledger.UpdateCredit(ctx, txn.CustomerID, release); err != nil {
			return nil, err
		}
	}
	if !creditCaptured.Equal(txn.CreditPortion) {
		if _, err := s.provider.UpdateMetadata(ctx, txn.ProviderRef, map[string]string{
			metaCreditPortionMinor: strconv.FormatInt(money.ToMinorUnits(creditCaptured), 10),
		}); err != nil {
			s.log.Warn().Err(err).Str("provider_ref", txn.ProviderRef).Msg("failed to record captured credit portion")
		}
	}

	txn.Amount = amount
	txn.CreditPortion = creditCaptured
	txn.Status = domain.TransactionStatusCaptured
	txn.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(ctx, txn, domain.PaymentMethodCard); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "transaction.captured", txn)
	s.log.Info().
		Str("order_id", txn.OrderID).
		Str("provider_ref", txn.ProviderRef).
		Str("captured", amount.String()).
		Msg("capture settled")

	return txn, nil
}

// recaptureExpired recovers from the one provider failure that is safe to
// retry transparently: a stale authorization the provider expired before
// capture. It re-authorizes with the original customer, shipping and transfer
// group, then captures against the fresh authorization. Every other failure
// propagates untouched.
func (s *TransactionServiceImpl) recaptureExpired(ctx context.Context, txn *domain.Transaction, providerMinor int64, captureErr error) (*ports.ProviderTxn, error) {
	var provErr *ports.ProviderCallError
	if !errors.As(captureErr, &provErr) || provErr.Code != domain.DeclineAuthorizationExpired {
		return nil, s.translateProviderError(captureErr)
	}

	orig, err := s.provider.Retrieve(ctx, txn.ProviderRef)
	if err != nil {
		return nil, s.translateProviderError(err)
	}

	s.log.Warn().
		Str("order_id", txn.OrderID).
		Str("provider_ref", txn.ProviderRef).
		Msg("authorization expired, recapturing")

	fresh, err := s.provider.CreateAuthorization(ctx, ports.AuthorizationRequest{
		AmountMinor:      orig.AmountMinor,
		Currency:         orig.Currency,
		CustomerRef:      orig.CustomerRef,
		PaymentMethodRef: orig.PaymentMethodRef,
		TransferGroup:    orig.TransferGroup,
		CaptureMode:      ports.CaptureModeManual,
		Shipping:         orig.Shipping,
		Metadata:         orig.Metadata,
	})
	if err != nil {
		return nil, s.translateProviderError(err)
	}

	pt, err := s.provider.CaptureAuthorization(ctx, fresh.Ref, providerMinor)
	if err != nil {
		return nil, s.translateProviderError(err)
	}
	return pt, nil
}

// Cancel voids a pre-capture transaction, restoring the credit share to the
// ledger and releasing the provider hold.
func (s *TransactionServiceImpl) Cancel(ctx context.Context, ref string) (*domain.Transaction, error) {
	txn, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if txn.IsCaptured() {
		return nil, apperror.ErrCancelCaptured()
	}
	if !txn.CanCancel() {
		return nil, apperror.State(fmt.Sprintf("Impossible to cancel transaction in status %s", txn.Status))
	}

	if txn.CreditPortion.IsPositive() {
		if _, err := s.ledger.UpdateCredit(ctx, txn.CustomerID, txn.CreditPortion); err != nil {
			return nil, err
		}
	}

	if !txn.IsPureLedger() {
		if _, err := s.provider.CancelAuthorization(ctx, txn.ProviderRef); err != nil {
			// The credit restore committed; undo it so both sides stay consistent.
			if txn.CreditPortion.IsPositive() {
				if _, rbErr := s.ledger.UpdateCredit(ctx, txn.CustomerID, txn.CreditPortion.Neg()); rbErr != nil {
					s.log.Error().Err(rbErr).
						Str("customer_id", txn.CustomerID.String()).
						Msg("ledger rollback failed after provider void error")
				}
			}
			return nil, s.translateProviderError(err)
		}
	}

	txn.Status = domain.TransactionStatusCanceled
	txn.UpdatedAt = time.Now().UTC()

	issuer := domain.PaymentMethodCard
	if txn.IsPureLedger() {
		issuer = domain.PaymentMethodInvoice
	}
	if err := s.saveOrder(ctx, txn, issuer); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "transaction.canceled", txn)
	s.log.Info().Str("order_id", txn.OrderID).Msg("transaction canceled")

	return txn, nil
}

// Refund reverses amount (everything outstanding when nil), restoring the
// credit share to the ledger and asking the provider to refund its share.
func (s *TransactionServiceImpl) Refund(ctx context.Context, ref string, amount *decimal.Decimal) (*domain.Transaction, error) {
	txn, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.TransactionStatusCanceled {
		return nil, apperror.State("Impossible to refund canceled transaction")
	}
	if !txn.CanRefund() {
		return nil, apperror.ErrNotRefundable(string(txn.Status))
	}

	outstanding := txn.Outstanding()
	refundAmount := outstanding
	if amount != nil {
		refundAmount = money.RoundCents(*amount)
		if !refundAmount.IsPositive() {
			return nil, apperror.ErrInvalidAmount()
		}
		if refundAmount.GreaterThan(outstanding) {
			return nil, apperror.ErrRefundExceedsRemaining()
		}
	}

	if txn.IsPureLedger() {
		return s.refundLedger(ctx, txn, refundAmount, outstanding)
	}
	return s.refundProvider(ctx, txn, refundAmount)
}

// refundLedger moves the amount back onto the balance and synthesizes a fresh
// settled snapshot for the remainder; there is no mutable provider record to
// re-fetch for a pure-ledger transaction.
func (s *TransactionServiceImpl) refundLedger(ctx context.Context, txn *domain.Transaction, amount, outstanding decimal.Decimal) (*domain.Transaction, error) {
	if _, err := s.ledger.UpdateCredit(ctx, txn.CustomerID, amount); err != nil {
		return nil, err
	}

	remaining := outstanding.Sub(amount)
	txn.Amount = remaining
	txn.RefundedAmount = decimal.Zero
	txn.CreditPortion = remaining
	if remaining.IsZero() {
		txn.Status = domain.TransactionStatusRefunded
	} else {
		txn.Status = domain.TransactionStatusInvoice
	}
	txn.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(ctx, txn, domain.PaymentMethodInvoice); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "transaction.refunded", txn)
	s.log.Info().
		Str("order_id", txn.OrderID).
		Str("refunded", amount.String()).
		Str("remaining", remaining.String()).
		Msg("pure-ledger refund settled")

	return txn, nil
}

func (s *TransactionServiceImpl) refundProvider(ctx context.Context, txn *domain.Transaction, amount decimal.Decimal) (*domain.Transaction, error) {
	// Split against what the provider actually captured and has already
	// refunded; the rest goes back onto the balance.
	providerCaptured := txn.Amount.Sub(txn.CreditPortion)
	creditRefunded, providerRefunded, err := s.refundedSoFar(ctx, txn)
	if err != nil {
		return nil, err
	}
	providerShare, creditShare := refundSplit(amount, providerCaptured, providerRefunded)

	if creditShare.IsPositive() {
		if _, err := s.ledger.UpdateCredit(ctx, txn.CustomerID, creditShare); err != nil {
			return nil, err
		}
	}

	if providerShare.IsPositive() {
		minor := money.ToMinorUnits(providerShare)
		if _, err := s.provider.CreateRefund(ctx, txn.ProviderRef, &minor, map[string]string{
			metaOrderID: txn.OrderID,
		}); err != nil {
			if creditShare.IsPositive() {
				if _, rbErr := s.ledger.UpdateCredit(ctx, txn.CustomerID, creditShare.Neg()); rbErr != nil {
					s.log.Error().Err(rbErr).
						Str("customer_id", txn.CustomerID.String()).
						Msg("ledger rollback failed after provider refund error")
				}
			}
			return nil, s.translateProviderError(err)
		}
	}

	if creditShare.IsPositive() {
		newCreditRefunded := creditRefunded.Add(creditShare)
		if _, err := s.provider.UpdateMetadata(ctx, txn.ProviderRef, map[string]string{
			metaCreditRefundedMinor: strconv.FormatInt(money.ToMinorUnits(newCreditRefunded), 10),
		}); err != nil {
			s.log.Warn().Err(err).Str("provider_ref", txn.ProviderRef).Msg("failed to record refunded credit share")
		}
	}

	txn.RefundedAmount = txn.RefundedAmount.Add(amount)
	if txn.RefundedAmount.Equal(txn.Amount) {
		txn.Status = domain.TransactionStatusRefunded
	} else {
		txn.Status = domain.TransactionStatusPartiallyRefunded
	}
	txn.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(ctx, txn, domain.PaymentMethodCard); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "transaction.refunded", txn)
	s.log.Info().
		Str("order_id", txn.OrderID).
		Str("refunded", amount.String()).
		Str("provider_share", providerShare.String()).
		Str("credit_share", creditShare.String()).
		Msg("refund settled")

	return txn, nil
}

// refundedSoFar reads the refund bookkeeping off the live provider record.
func (s *TransactionServiceImpl) refundedSoFar(ctx context.Context, txn *domain.Transaction) (creditRefunded, providerRefunded decimal.Decimal, err error) {
	pt, err := s.provider.Retrieve(ctx, txn.ProviderRef)
	if err != nil {
		return decimal.Zero, decimal.Zero, s.translateProviderError(err)
	}
	return creditRefundedFromMetadata(pt.Metadata), money.FromMinorUnits(pt.RefundedMinor), nil
}

// Get rehydrates a transaction from its stored reference. Pure-ledger
// transactions decode from the compact ledger encoding; provider-backed ones
// re-fetch the live provider record, which keeps full semantics recoverable
// from only the order record.
func (s *TransactionServiceImpl) Get(ctx context.Context, ref string) (*domain.Transaction, error) {
	if ref == "" {
		return nil, apperror.ErrNotFound("transaction")
	}

	order, err := s.orders.GetByTransactionRef(ctx, ref)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("transaction")
	}

	if domain.IsLedgerRef(ref) {
		return s.rehydrateLedger(ref, order)
	}
	return s.rehydrateProvider(ctx, ref, order)
}

func (s *TransactionServiceImpl) rehydrateLedger(ref string, order *domain.Order) (*domain.Transaction, error) {
	orderID, amount, refunded, customerID, err := domain.DecodeLedgerRef(ref)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("decode ledger ref: %w", err))
	}

	status := order.Status
	if status == domain.TransactionStatusInvoicePaid {
		status = domain.TransactionStatusInvoice
	}

	return &domain.Transaction{
		ID:             order.ID,
		Status:         status,
		Amount:         amount,
		RefundedAmount: refunded,
		CreditPortion:  amount,
		Currency:       s.currency,
		OrderID:        orderID,
		CustomerID:     customerID,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}, nil
}

func (s *TransactionServiceImpl) rehydrateProvider(ctx context.Context, ref string, order *domain.Order) (*domain.Transaction, error) {
	pt, err := s.provider.Retrieve(ctx, ref)
	if err != nil {
		return nil, s.translateProviderError(err)
	}

	creditPortion := money.FromMinorUnits(metadataMinor(pt.Metadata, metaCreditPortionMinor))
	creditRefunded := creditRefundedFromMetadata(pt.Metadata)

	status := order.Status
	if pt.Status == ports.ProviderStatusCanceled {
		status = domain.TransactionStatusCanceled
	}

	txn := &domain.Transaction{
		ID:                order.ID,
		ProviderRef:       pt.Ref,
		Status:            status,
		CreditPortion:     creditPortion,
		RefundedAmount:    money.FromMinorUnits(pt.RefundedMinor).Add(creditRefunded),
		Currency:          pt.Currency,
		OrderID:           order.OrderID,
		CustomerID:        order.CustomerID,
		TransferGroup:     pt.TransferGroup,
		ContinuationToken: pt.ClientToken,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}

	// The provider only knows its own share; the economic amount adds the
	// credit share back on top.
	if txn.IsCaptured() {
		txn.Amount = money.FromMinorUnits(pt.CapturedMinor).Add(creditPortion)
	} else {
		txn.Amount = money.FromMinorUnits(pt.AmountMinor).Add(creditPortion)
	}

	return txn, nil
}

// saveOrder persists the order record a transaction rehydrates from.
func (s *TransactionServiceImpl) saveOrder(ctx context.Context, txn *domain.Transaction, issuer domain.PaymentMethodKind) error {
	ref := txn.ProviderRef
	if txn.IsPureLedger() {
		ref = domain.EncodeLedgerRef(txn)
	}
	order := &domain.Order{
		ID:             txn.ID,
		OrderID:        txn.OrderID,
		CustomerID:     txn.CustomerID,
		Status:         txn.Status,
		TransactionRef: ref,
		Issuer:         issuer,
		CreatedAt:      txn.CreatedAt,
		UpdatedAt:      txn.UpdatedAt,
	}
	if err := s.orders.Upsert(ctx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("persist order: %w", err))
	}
	return nil
}

// translateProviderError converts an adapter failure into the typed taxonomy.
// Known decline codes get their stable user-facing message; everything else
// surfaces generically with the original code preserved for logging.
func (s *TransactionServiceImpl) translateProviderError(err error) error {
	var provErr *ports.ProviderCallError
	if !errors.As(err, &provErr) {
		return apperror.ProviderUnavailable(err)
	}

	msg, known := domain.DeclineMessage(provErr.Code)
	if !known {
		s.log.Error().
			Str("decline_code", provErr.Code).
			Str("provider_message", provErr.Message).
			Msg("unrecognized provider decline code")
	}
	return apperror.Provider(provErr.Code, msg, err)
}

// transactionEvent is the lifecycle payload emitted on the event bus.
type transactionEvent struct {
	Event      string `json:"event"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Refunded   string `json:"refunded_amount"`
	Status     string `json:"status"`
	Currency   string `json:"currency"`
}

// publishEvent emits a lifecycle event. Delivery is best-effort and never
// fails the settlement.
func (s *TransactionServiceImpl) publishEvent(ctx context.Context, subject string, txn *domain.Transaction) {
	payload, err := json.Marshal(transactionEvent{
		Event:      subject,
		OrderID:    txn.OrderID,
		CustomerID: txn.CustomerID.String(),
		Amount:     txn.Amount.String(),
		Refunded:   txn.RefundedAmount.String(),
		Status:     string(txn.Status),
		Currency:   txn.Currency,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("subject", subject).Msg("failed to marshal event")
		return
	}
	if err := s.events.Publish(ctx, subject, payload); err != nil {
		s.log.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}

func statusFromProvider(providerStatus string) domain.TransactionStatus {
	switch providerStatus {
	case ports.ProviderStatusRequiresAction:
		return domain.TransactionStatusRequiresAction
	case ports.ProviderStatusAuthorized:
		return domain.TransactionStatusAuthorized
	case ports.ProviderStatusCaptured:
		return domain.TransactionStatusCaptured
	case ports.ProviderStatusCanceled:
		return domain.TransactionStatusCanceled
	default:
		return domain.TransactionStatusPending
	}
}

func metadataMinor(metadata map[string]string, key string) int64 {
	if metadata == nil {
		return 0
	}
	v, err := strconv.ParseInt(metadata[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func creditRefundedFromMetadata(metadata map[string]string) decimal.Decimal {
	return money.FromMinorUnits(metadataMinor(metadata, metaCreditRefundedMinor))
}
