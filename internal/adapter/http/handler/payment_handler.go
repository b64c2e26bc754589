package handler

import (
	"time"

	"blended-settlement/internal/adapter/http/dto"
	"blended-settlement/internal/adapter/http/middleware"
	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports"
	"blended-settlement/pkg/apperror"
	"blended-settlement/pkg/obfuscate"
	"blended-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles the transaction lifecycle endpoints. Transaction
// references never leave the service raw: the codec turns them into opaque
// url-safe ids and back.
type PaymentHandler struct {
	txnSvc ports.TransactionService
	codec  *obfuscate.Codec
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(txnSvc ports.TransactionService, codec *obfuscate.Codec) *PaymentHandler {
	return &PaymentHandler{txnSvc: txnSvc, codec: codec}
}

// Authorize handles POST /api/v1/payments/authorize.
func (h *PaymentHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.Error(c, apperror.Validation("customer_id must be a uuid"))
		return
	}

	txn, err := h.txnSvc.Authorize(c.Request.Context(), ports.AuthorizeRequest{
		CustomerID: customerID,
		Method: domain.PaymentMethod{
			Kind:        domain.PaymentMethodKind(req.Method.Kind),
			ProviderRef: req.Method.ProviderRef,
		},
		Amount:        amount,
		OrderID:       req.OrderID,
		TransferGroup: req.TransferGroup,
		Description:   req.Description,
		Shipping:      req.Shipping,
	})
	middleware.RecordOperation("authorize", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, h.toTransactionResponse(txn))
}

// Capture handles POST /api/v1/payments/:id/capture.
func (h *PaymentHandler) Capture(c *gin.Context) {
	ref, ok := h.decodeRef(c)
	if !ok {
		return
	}

	var req dto.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.txnSvc.Capture(c.Request.Context(), ref, amount)
	middleware.RecordOperation("capture", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.toTransactionResponse(txn))
}

// Cancel handles POST /api/v1/payments/:id/cancel.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	ref, ok := h.decodeRef(c)
	if !ok {
		return
	}

	txn, err := h.txnSvc.Cancel(c.Request.Context(), ref)
	middleware.RecordOperation("cancel", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.toTransactionResponse(txn))
}

// Refund handles POST /api/v1/payments/:id/refund.
func (h *PaymentHandler) Refund(c *gin.Context) {
	ref, ok := h.decodeRef(c)
	if !ok {
		return
	}

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := dto.ParseAmount(*req.Amount)
		if err != nil {
			response.Error(c, err)
			return
		}
		amount = &parsed
	}

	txn, err := h.txnSvc.Refund(c.Request.Context(), ref, amount)
	middleware.RecordOperation("refund", err)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.toTransactionResponse(txn))
}

// Get handles GET /api/v1/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	ref, ok := h.decodeRef(c)
	if !ok {
		return
	}

	txn, err := h.txnSvc.Get(c.Request.Context(), ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.toTransactionResponse(txn))
}

// decodeRef resolves the opaque path id back to the transaction reference.
func (h *PaymentHandler) decodeRef(c *gin.Context) (string, bool) {
	ref, err := h.codec.Decode(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound("transaction"))
		return "", false
	}
	return ref, true
}

func (h *PaymentHandler) toTransactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	ref := txn.ProviderRef
	if txn.IsPureLedger() {
		ref = domain.EncodeLedgerRef(txn)
	}
	return dto.TransactionResponse{
		ID:                h.codec.Encode(ref),
		OrderID:           txn.OrderID,
		Status:            string(txn.Status),
		Amount:            txn.Amount.StringFixed(2),
		RefundedAmount:    txn.RefundedAmount.StringFixed(2),
		CreditPortion:     txn.CreditPortion.StringFixed(2),
		Currency:          txn.Currency,
		ContinuationToken: txn.ContinuationToken,
		CreatedAt:         txn.CreatedAt.Format(time.RFC3339),
	}
}
