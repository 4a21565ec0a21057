package status_transition

import (
	"storefront/internal/entities"
)

// Policy decides which administrator status overrides are allowed.
type Policy struct{}

func New() *Policy {
	return &Policy{}
}

// Allowed reports whether an order may move from one status to another by hand.
// Completed is terminal, and a verified payment can only be fulfilled.
func (p *Policy) Allowed(from, to entities.OrderStatusType) bool {
	if !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}

	switch from {
	case entities.OrderPending, entities.OrderFailed:
		return true
	case entities.OrderVerified:
		return to == entities.OrderCompleted
	case entities.OrderCompleted:
		return false
	default:
		return false
	}
}
