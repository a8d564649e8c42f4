package billing

import (
	"errors"

	"github.com/homelease/backend/internal/domain/shared"
)

// Billing error codes. Batch operations (the billing run) collect these per
// lease into the run report; single-record operations return them directly.
const (
	CodeLeaseConfiguration = "LEASE_CONFIGURATION"
	CodeDuplicatePeriod    = "DUPLICATE_PERIOD"
	CodeInvalidReading     = "INVALID_READING"
	CodePendingItems       = "PENDING_ITEMS"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInvalidPeriod      = "INVALID_PERIOD"
)

// ErrDuplicatePeriod signals that an invoice already exists for the
// (lease, period start) pair. The billing run treats it as a no-op skip;
// it is the mechanism that turns a concurrent run into idempotence.
var ErrDuplicatePeriod = shared.NewDomainError(CodeDuplicatePeriod, "An invoice already exists for this lease and billing period")

// NewConfigurationError reports a lease whose billing terms are internally
// inconsistent. Fatal for that lease, never for the whole run.
func NewConfigurationError(message string) *shared.DomainError {
	return shared.NewDomainError(CodeLeaseConfiguration, message)
}

// NewInvalidReadingError reports a meter confirmation that violates its
// preconditions. No partial mutation occurs.
func NewInvalidReadingError(message string) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidReading, message)
}

// NewPendingItemsError reports an attempt to issue an invoice that still
// has unconfirmed metered items.
func NewPendingItemsError(message string) *shared.DomainError {
	return shared.NewDomainError(CodePendingItems, message)
}

// NewInvalidTransitionError reports a state-machine transition attempted
// from a state that does not permit it.
func NewInvalidTransitionError(message string) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidTransition, message)
}

func hasCode(err error, code string) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsDuplicatePeriod reports whether err is a duplicate-period error
func IsDuplicatePeriod(err error) bool {
	return hasCode(err, CodeDuplicatePeriod)
}

// IsConfigurationError reports whether err is a per-lease configuration error
func IsConfigurationError(err error) bool {
	return hasCode(err, CodeLeaseConfiguration)
}

// IsInvalidReading reports whether err is an invalid meter reading error
func IsInvalidReading(err error) bool {
	return hasCode(err, CodeInvalidReading)
}

// IsPendingItems reports whether err is a pending-items error
func IsPendingItems(err error) bool {
	return hasCode(err, CodePendingItems)
}

// IsInvalidTransition reports whether err is an invalid-transition error
func IsInvalidTransition(err error) bool {
	return hasCode(err, CodeInvalidTransition)
}
