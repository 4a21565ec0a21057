//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=catalog_test
package catalog

import (
	"context"

	"storefront/internal/entities"
)

type Repository interface {
	ListProducts(ctx context.Context) ([]entities.Product, error)
	GetProduct(ctx context.Context, id string) (*entities.Product, error)
	CreateProduct(ctx context.Context, product entities.Product) error
	CountProducts(ctx context.Context) (int64, error)
	GetPerformance(ctx context.Context) (*entities.PerformanceMetric, error)
	ReplacePerformance(ctx context.Context, metric entities.PerformanceMetric) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
