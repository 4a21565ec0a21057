//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=verification_test
package verification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	Update(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error)
	FindByTransactionHash(ctx context.Context, network entities.Network, hash string) (*entities.Order, error)
	ClaimTransaction(ctx context.Context, network entities.Network, hash, orderID string) error
	ResetStaleVerifications(ctx context.Context, olderThan time.Duration) (int64, error)
}

type PaymentMethods interface {
	Get(code entities.PaymentMethodCode) (entities.PaymentMethod, bool)
}

type ChainLookup interface {
	Lookup(ctx context.Context, method entities.PaymentMethod, hash string) (*entities.TransactionFacts, error)
}

type RateOracle interface {
	FiatToCrypto(ctx context.Context, amount decimal.Decimal, rateID string) (*entities.Quote, error)
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event entities.OrderStatusChanged) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
