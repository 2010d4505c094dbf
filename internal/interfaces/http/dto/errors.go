package dto

import "net/http"

// Error codes used by the HTTP layer. Domain codes pass through unchanged so
// clients can match on them.
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// httpStatusByCode maps stable error codes to HTTP status codes. Conflicts
// between the request and the ledger's current state map to 409; inputs the
// ledger can never accept map to 422.
var httpStatusByCode = map[string]int{
	ErrCodeBadRequest:        http.StatusBadRequest,
	"VALIDATION_ERROR":       http.StatusUnprocessableEntity,
	"NOT_FOUND":              http.StatusNotFound,
	"INVALID_STATE":          http.StatusConflict,
	"INSUFFICIENT_STOCK":     http.StatusConflict,
	"PAYMENT_EXCEEDS_TOTAL":  http.StatusConflict,
	"INSUFFICIENT_CREDIT":    http.StatusConflict,
	"AMOUNT_EXCEEDS_BALANCE": http.StatusConflict,
	"PERSISTENCE_ERROR":      http.StatusInternalServerError,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
