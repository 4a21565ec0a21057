package verification

import "errors"

// Chain lookup outcomes. Gateways wrap these so the engine can classify them.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionPending  = errors.New("transaction pending")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrLookupUnavailable   = errors.New("chain lookup unavailable")
	ErrUnsupportedNetwork  = errors.New("unsupported network")
)

var ErrRateUnavailable = errors.New("exchange rate unavailable")

var ErrTransactionHashRequired = errors.New("transaction hash is required")
