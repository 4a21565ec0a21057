//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"

	"storefront/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, order entities.Order) error
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	Update(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	Stats(ctx context.Context) (*entities.OrderStats, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*entities.Product, error)
}

type PaymentMethods interface {
	Get(code entities.PaymentMethodCode) (entities.PaymentMethod, bool)
}

type Verifier interface {
	Verify(ctx context.Context, orderID string) (*entities.VerificationResult, error)
}

type TransitionPolicy interface {
	Allowed(from, to entities.OrderStatusType) bool
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event entities.OrderStatusChanged) error
}
