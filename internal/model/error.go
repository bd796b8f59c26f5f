package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeDiscountNotFound      = "DISCOUNT_NOT_FOUND"
	ErrCodeDiscountExpired       = "DISCOUNT_EXPIRED"
	ErrCodeDiscountGlobalLimit   = "DISCOUNT_GLOBAL_LIMIT"
	ErrCodeDiscountPerUserLimit  = "DISCOUNT_USER_LIMIT"
	ErrCodeUnserviceableLocation = "UNSERVICEABLE_LOCATION"
	ErrCodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// DomainError is a business failure with a machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with a formatted message.
func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrOrderNotFound        = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrProductNotFound      = NewDomainError(ErrCodeNotFound, "One or more products not found")
	ErrVariationNotFound    = NewDomainError(ErrCodeNotFound, "Product variation not found")
	ErrCompanyNotFound      = NewDomainError(ErrCodeNotFound, "Company not found")
	ErrDiscountNotFound     = NewDomainError(ErrCodeDiscountNotFound, "Discount code not found or not active")
	ErrDiscountExpired      = NewDomainError(ErrCodeDiscountExpired, "Discount code is outside its validity window")
	ErrDiscountGlobalLimit  = NewDomainError(ErrCodeDiscountGlobalLimit, "Discount code has reached its total usage limit")
	ErrDiscountPerUserLimit = NewDomainError(ErrCodeDiscountPerUserLimit, "Discount code has reached its per-customer usage limit")
	ErrUnserviceableCity    = NewDomainError(ErrCodeUnserviceableLocation, "Delivery city is outside the service area")
	ErrConcurrencyConflict  = NewDomainError(ErrCodeConcurrencyConflict, "Concurrent update conflict, retry the request")
	ErrInvalidQuantity      = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
)
