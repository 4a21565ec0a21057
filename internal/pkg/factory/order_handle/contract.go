//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_handle_test
package order_handle

import (
	"context"

	"storefront/internal/entities"
)

type Notifier interface {
	LicenseIssued(ctx context.Context, event entities.OrderStatusChanged) error
	PaymentFailed(ctx context.Context, event entities.OrderStatusChanged) error
}
