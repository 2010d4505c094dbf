package shared

import "fmt"

// DomainError represents a domain-level error with a stable machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// This lets callers match sentinel errors with errors.Is even when the
// message carries request-specific detail.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrValidation           = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock    = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrPaymentExceedsTotal  = NewDomainError("PAYMENT_EXCEEDS_TOTAL", "Payment would exceed the invoice total")
	ErrInsufficientCredit   = NewDomainError("INSUFFICIENT_CREDIT", "Insufficient store credit available")
	ErrAmountExceedsBalance = NewDomainError("AMOUNT_EXCEEDS_BALANCE", "Amount exceeds the outstanding balance")
	ErrPersistence          = NewDomainError("PERSISTENCE_ERROR", "Underlying storage failure")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_ERROR", message)
}

// NewInsufficientStockError names the offending product and the quantities involved
func NewInsufficientStockError(productName string, requested, available int64) *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", productName, requested, available))
}
