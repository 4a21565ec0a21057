package catalog

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrPerformanceNotFound = errors.New("performance metric not found")
	ErrProductExists       = errors.New("product already exists")
)

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidPrice          = errors.New("price must be positive")
	ErrInvalidPercentage     = errors.New("percentage must be between 0 and 100")
	ErrInvalidTotalTrades    = errors.New("total trades must not be negative")
)
