package services

import "errors"

// Error codes surfaced in 422 bodies.
const (
	CodeMissingFields  = "missing-fields"
	CodeOutOfInventory = "out-of-inventory"
	CodeAlreadyPaid    = "already-paid"
)

// Field groups keying the wire error body: product for order creation,
// order for mutations of an existing order.
const (
	GroupProduct = "product"
	GroupOrder   = "order"
)

// ValidationError is a client-input problem, surfaced as 422 with a
// structured body.
type ValidationError struct {
	Group string
	Code  string
	Name  string
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.Name
}

func validationErr(group, code, name string) *ValidationError {
	return &ValidationError{Group: group, Code: code, Name: name}
}

var (
	// ErrOrderNotFound maps to a 404 with an empty body.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPaymentUnavailable means the gateway could not be reached at all,
	// as opposed to reaching it and being declined.
	ErrPaymentUnavailable = errors.New("payment gateway unavailable")
)
