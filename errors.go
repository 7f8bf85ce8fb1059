package tab

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("tab: not found")
	ErrAlreadyExists = errors.New("tab: already exists")
	ErrInvalidInput  = errors.New("tab: invalid input")

	// Order errors
	ErrOrderNotFound = errors.New("tab: order not found")
	ErrItemNotFound  = errors.New("tab: order item not found")

	// Settlement errors
	ErrInsufficientPayment  = errors.New("tab: tendered amount below order total")
	ErrOrderAlreadySettled  = errors.New("tab: order already settled")
	ErrTenderRequired       = errors.New("tab: cash settlement requires a tendered amount")
	ErrUnknownPaymentMethod = errors.New("tab: unknown payment method")

	// Store errors
	ErrStoreNotReady = errors.New("tab: store not ready")
	ErrStoreClosed   = errors.New("tab: store is closed")
)

// ValidationError represents a draft-order validation failure.
// The caller is expected to re-prompt rather than retry as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("tab: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsValidation returns true if the error is a draft validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsSettlementRejected returns true if settlement was refused without
// mutating the order.
func IsSettlementRejected(err error) bool {
	return errors.Is(err, ErrInsufficientPayment) ||
		errors.Is(err, ErrOrderAlreadySettled) ||
		errors.Is(err, ErrTenderRequired)
}
