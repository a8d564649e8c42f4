package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Billing error codes
const (
	// ErrCodeDuplicatePeriod is used when an invoice already exists for a
	// lease and billing period
	ErrCodeDuplicatePeriod = "ERR_DUPLICATE_PERIOD"
	// ErrCodePendingItems is used when issuing is blocked by unconfirmed
	// metered items
	ErrCodePendingItems = "ERR_PENDING_ITEMS"
	// ErrCodeInvalidTransition is used for invalid invoice or lease state
	// transitions
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeInvalidReading is used when a meter reading is rejected
	ErrCodeInvalidReading = "ERR_INVALID_READING"
	// ErrCodeInvalidPeriod is used when a billing period is outside the lease
	ErrCodeInvalidPeriod = "ERR_INVALID_PERIOD"
	// ErrCodeLeaseConfiguration is used when a lease's billing setup is
	// internally inconsistent
	ErrCodeLeaseConfiguration = "ERR_LEASE_CONFIGURATION"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeDuplicatePeriod:    http.StatusConflict,
	ErrCodePendingItems:       http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:  http.StatusUnprocessableEntity,
	ErrCodeInvalidReading:     http.StatusUnprocessableEntity,
	ErrCodeInvalidPeriod:      http.StatusUnprocessableEntity,
	ErrCodeLeaseConfiguration: http.StatusUnprocessableEntity,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to API error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"DUPLICATE_PERIOD":    ErrCodeDuplicatePeriod,
	"PENDING_ITEMS":       ErrCodePendingItems,
	"INVALID_TRANSITION":  ErrCodeInvalidTransition,
	"INVALID_READING":     ErrCodeInvalidReading,
	"INVALID_PERIOD":      ErrCodeInvalidPeriod,
	"LEASE_CONFIGURATION": ErrCodeLeaseConfiguration,

	"INVALID_LEASE_NUMBER":     ErrCodeInvalidInput,
	"INVALID_LEASE_DATES":      ErrCodeInvalidInput,
	"INVALID_ROOM":             ErrCodeInvalidInput,
	"INVALID_TENANT":           ErrCodeInvalidInput,
	"INVALID_APARTMENT":        ErrCodeInvalidInput,
	"INVALID_CHARGE":           ErrCodeInvalidInput,
	"INVALID_ESCALATION":       ErrCodeInvalidInput,
	"INVALID_RENT":             ErrCodeInvalidInput,
	"INVALID_DEPOSIT":          ErrCodeInvalidInput,
	"INVALID_BILLING_CYCLE":    ErrCodeInvalidInput,
	"INVALID_TERMINATION_DATE": ErrCodeInvalidInput,
	"INVALID_REASON":           ErrCodeInvalidInput,
	"INVALID_STATUS":           ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes without a mapping pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
