package order

import "errors"

// Store errors, returned by every order storage backend.
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrConflict               = errors.New("order already exists")
	ErrConcurrencyConflict    = errors.New("order changed concurrently")
	ErrTransactionAlreadyUsed = errors.New("transaction already used")
)

// Validation errors.
var (
	ErrMissingRequiredFields  = errors.New("missing required fields")
	ErrInvalidEmail           = errors.New("invalid customer email")
	ErrInvalidName            = errors.New("invalid customer name")
	ErrUnknownProduct         = errors.New("unknown product")
	ErrProductUnavailable     = errors.New("product is not available")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
	ErrAmountMismatch         = errors.New("amount does not match product price")
	ErrInvalidTransactionHash = errors.New("invalid transaction hash")
	ErrInvalidStatus          = errors.New("invalid status")
)

var (
	ErrInvalidTransition         = errors.New("status transition not allowed")
	ErrTransactionHashAlreadySet = errors.New("transaction hash already set")
	ErrVerificationInProgress    = errors.New("verification already in progress")
)
