package dto

// RegisterRequest is the request body for API client registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for API client login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// PaymentMethodRequest selects the funding instrument for an authorization.
type PaymentMethodRequest struct {
	Kind        string `json:"kind" binding:"required"`
	ProviderRef string `json:"provider_ref,omitempty"`
}

// AuthorizeRequest is the request body for creating an authorization.
// Amounts are decimal strings in major units.
type AuthorizeRequest struct {
	CustomerID    string               `json:"customer_id" binding:"required,uuid"`
	OrderID       string               `json:"order_id" binding:"required,max=100,safe_id"`
	Amount        string               `json:"amount" binding:"required"`
	Method        PaymentMethodRequest `json:"method" binding:"required"`
	TransferGroup string               `json:"transfer_group,omitempty"`
	Description   string               `json:"description,omitempty"`
	Shipping      map[string]string    `json:"shipping,omitempty"`
}

// CaptureRequest is the request body for capturing an authorization.
type CaptureRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// RefundRequest is the request body for refunding a capture. A missing
// amount refunds everything outstanding.
type RefundRequest struct {
	Amount *string `json:"amount,omitempty"`
}

// CreditGrantRequest is the request body for topping up stored credit.
type CreditGrantRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// AllowCreditRequest toggles the negative-balance allowance.
type AllowCreditRequest struct {
	Allowed *bool `json:"allowed" binding:"required"`
}

// CouponRequest redeems an external coupon onto the balance.
type CouponRequest struct {
	Coupon string `json:"coupon" binding:"required,max=100,safe_id"`
}

// TransactionResponse is the response body for transaction results. The id is
// the opaque transaction reference used in payment URLs.
type TransactionResponse struct {
	ID                string `json:"id"`
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	Amount            string `json:"amount"`
	RefundedAmount    string `json:"refunded_amount"`
	CreditPortion     string `json:"credit_portion"`
	Currency          string `json:"currency"`
	ContinuationToken string `json:"continuation_token,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// CustomerResponse is the response body for ledger state.
type CustomerResponse struct {
	ID            string `json:"id"`
	UID           string `json:"uid"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	CreditAllowed bool   `json:"credit_allowed"`
}
