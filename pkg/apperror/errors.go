package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation reports malformed or out-of-range input.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Invalid amount", http.StatusBadRequest)
}

func ErrCreditMustBePositive() *AppError {
	return New("VAL_003", "Credit amount must be a positive number", http.StatusBadRequest)
}

// ---- Transaction state (STATE) ----

// State reports an operation that is invalid for the current transaction status.
func State(message string) *AppError {
	return New("STATE_001", message, http.StatusConflict)
}

func ErrCancelCaptured() *AppError {
	return New("STATE_002", "Impossible to cancel captured transaction", http.StatusConflict)
}

func ErrNotCapturable(status string) *AppError {
	return New("STATE_003", fmt.Sprintf("Transaction in status %s cannot be captured", status), http.StatusConflict)
}

func ErrNotRefundable(status string) *AppError {
	return New("STATE_004", fmt.Sprintf("Transaction in status %s cannot be refunded", status), http.StatusConflict)
}

// ---- Credit limits (LIMIT) ----

func ErrCreditLimitExceeded(limit string) *AppError {
	return New("LIMIT_001", fmt.Sprintf("Credit would exceed limitation of %s", limit), http.StatusUnprocessableEntity)
}

func ErrNegativeCreditLimitExceeded(limit string) *AppError {
	return New("LIMIT_002", fmt.Sprintf("Negative credit exceed limitation of %s", limit), http.StatusUnprocessableEntity)
}

func ErrRefundExceedsRemaining() *AppError {
	return New("LIMIT_003", "Refund amount exceeds remaining refundable amount", http.StatusBadRequest)
}

func ErrCaptureExceedsAuthorized() *AppError {
	return New("LIMIT_004", "Capture amount exceeds authorized amount", http.StatusBadRequest)
}

func ErrAmountLimitExceeded(limit string) *AppError {
	return New("LIMIT_005", fmt.Sprintf("Amount exceeds limitation of %s", limit), http.StatusUnprocessableEntity)
}

// ---- Ledger concurrency (CONC) ----

// ErrLedgerBusy reports the per-customer mutation guard rejecting a second
// in-flight credit update (reentrancy detection). Callers may retry.
func ErrLedgerBusy() *AppError {
	return New("CONC_001", "Credit update already in flight for customer (reentrancy detection)", http.StatusConflict)
}

// ---- Provider (PROV) ----

// Provider wraps a translated provider decline with its original code.
func Provider(declineCode string, message string, err error) *AppError {
	return Wrap("PROV_"+declineCode, message, http.StatusPaymentRequired, err)
}

// ProviderUnavailable wraps a non-decline provider failure.
func ProviderUnavailable(err error) *AppError {
	return Wrap("PROV_000", "Payment provider error", http.StatusBadGateway, err)
}

// ---- Not found (NF) ----

func ErrNotFound(entity string) *AppError {
	return New("NF_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
