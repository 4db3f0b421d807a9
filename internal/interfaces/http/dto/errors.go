package dto

import "net/http"

// Domain error codes surfaced over HTTP
const (
	ErrCodeUnknown      = "UNKNOWN"
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:      http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Input and lookup
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"NOT_FOUND":        http.StatusNotFound,
	"ITEM_NOT_FOUND":   http.StatusNotFound,

	// Address book
	"INVALID_RECIPIENT":    http.StatusBadRequest,
	"INVALID_PHONE":        http.StatusBadRequest,
	"INVALID_ADDRESS_LINE": http.StatusBadRequest,
	"INVALID_DESTINATION":  http.StatusBadRequest,
	"INVALID_USER_ID":      http.StatusBadRequest,

	// Cart state
	"CART_NOT_BOUND":          http.StatusConflict,
	"UNSUPPORTED_CART_SCHEMA": http.StatusConflict,
	"MERGE_IN_PROGRESS":       http.StatusConflict,
	"MERGE_WRITE_FAILED":      http.StatusBadGateway,

	// Checkout preconditions and state
	"INCOMPLETE_CHECKOUT":    http.StatusUnprocessableEntity,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_DISCOUNT":       http.StatusBadRequest,
	"SHIPPING_NOT_READY":     http.StatusConflict,
	"NO_ACTIVE_DRAFT":        http.StatusConflict,
	"DRAFT_STALE":            http.StatusConflict,
	"SUBMIT_IN_PROGRESS":     http.StatusConflict,

	// Upstream services
	"QUOTE_FETCH_FAILED":      http.StatusBadGateway,
	"ORDER_SUBMISSION_FAILED": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for a domain error code,
// defaulting to 500 for codes the map does not know
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
