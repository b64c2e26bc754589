package handler

import (
	"blended-settlement/internal/adapter/http/dto"
	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports"
	"blended-settlement/pkg/apperror"
	"blended-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditHandler handles the customer credit ledger endpoints.
type CreditHandler struct {
	ledgerSvc ports.LedgerService
	customers ports.CustomerRepository
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(ledgerSvc ports.LedgerService, customers ports.CustomerRepository) *CreditHandler {
	return &CreditHandler{ledgerSvc: ledgerSvc, customers: customers}
}

// GetCredit handles GET /api/v1/customers/:id/credit.
func (h *CreditHandler) GetCredit(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if customer == nil {
		response.Error(c, apperror.ErrNotFound("customer"))
		return
	}

	response.OK(c, toCustomerResponse(customer))
}

// GrantCredit handles POST /api/v1/customers/:id/credit.
func (h *CreditHandler) GrantCredit(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req dto.CreditGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.ledgerSvc.GrantCredit(c.Request.Context(), customerID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toCustomerResponse(customer))
}

// AllowCredit handles POST /api/v1/customers/:id/credit/allow.
func (h *CreditHandler) AllowCredit(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req dto.AllowCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	customer, err := h.ledgerSvc.AllowCredit(c.Request.Context(), customerID, *req.Allowed)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toCustomerResponse(customer))
}

// ApplyCoupon handles POST /api/v1/customers/:id/coupons.
func (h *CreditHandler) ApplyCoupon(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req dto.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	customer, err := h.ledgerSvc.ApplyCoupon(c.Request.Context(), customerID, req.Coupon)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toCustomerResponse(customer))
}

func (h *CreditHandler) customerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("customer id must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func toCustomerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:            customer.ID.String(),
		UID:           customer.UID,
		Balance:       customer.Balance.StringFixed(2),
		Currency:      customer.Currency,
		CreditAllowed: customer.CreditAllowed,
	}
}
