package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when a cart kept changing under an update
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Cart error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeMixedCurrency is used when an item's currency differs from the cart's
	ErrCodeMixedCurrency = "ERR_MIXED_CURRENCY"
	// ErrCodeInvalidPrice is used when an item price cannot be parsed
	ErrCodeInvalidPrice = "ERR_INVALID_PRICE"
	// ErrCodeInvalidCurrency is used for codes that are not ISO 4217
	ErrCodeInvalidCurrency = "ERR_INVALID_CURRENCY"
	// ErrCodeInvalidVariant is used when a variant identifier is missing or malformed
	ErrCodeInvalidVariant = "ERR_INVALID_VARIANT"
	// ErrCodeQuantityLimit is used when a line item would exceed the per-item quantity cap
	ErrCodeQuantityLimit = "ERR_QUANTITY_LIMIT"
)

// Checkout error codes
const (
	// ErrCodeEmptyCart is used when checkout is requested for an empty cart
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeInvalidLineItem is used when one or more cart items cannot be submitted
	ErrCodeInvalidLineItem = "ERR_INVALID_LINE_ITEM"
	// ErrCodeCheckoutRejected is used when the platform refuses the checkout
	ErrCodeCheckoutRejected = "ERR_CHECKOUT_REJECTED"
	// ErrCodeCheckoutInProgress is used when the session already has a submission in flight
	ErrCodeCheckoutInProgress = "ERR_CHECKOUT_IN_PROGRESS"
	// ErrCodeNoAvailableVariant is used when a product has nothing for sale
	ErrCodeNoAvailableVariant = "ERR_NO_AVAILABLE_VARIANT"
)

// Upstream error codes
const (
	// ErrCodeUpstream is used when the commerce platform fails or reports errors
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeConfiguration is used when platform credentials are missing
	ErrCodeConfiguration = "ERR_CONFIGURATION"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeRateLimited is used when a client exceeds its request budget
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Cart rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeMixedCurrency:   http.StatusUnprocessableEntity,
	ErrCodeInvalidPrice:    http.StatusBadRequest,
	ErrCodeInvalidCurrency: http.StatusBadRequest,
	ErrCodeInvalidVariant:  http.StatusBadRequest,
	ErrCodeQuantityLimit:   http.StatusUnprocessableEntity,

	// Checkout errors
	ErrCodeEmptyCart:          http.StatusUnprocessableEntity,
	ErrCodeInvalidLineItem:    http.StatusUnprocessableEntity,
	ErrCodeCheckoutRejected:   http.StatusUnprocessableEntity,
	ErrCodeCheckoutInProgress: http.StatusConflict,
	ErrCodeNoAvailableVariant: http.StatusUnprocessableEntity,

	// Upstream errors
	ErrCodeUpstream:      http.StatusBadGateway,
	ErrCodeConfiguration: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"CONFLICT":         ErrCodeConflict,
	"MIXED_CURRENCY":   ErrCodeMixedCurrency,
	"INVALID_PRICE":    ErrCodeInvalidPrice,
	"INVALID_CURRENCY": ErrCodeInvalidCurrency,
	"INVALID_VARIANT":  ErrCodeInvalidVariant,
	"QUANTITY_LIMIT":   ErrCodeQuantityLimit,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
