//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=performance_post_test
package performance_post

import (
	"context"

	"storefront/internal/entities"
	"storefront/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	SetPerformance(ctx context.Context, metric entities.PerformanceMetric) (*entities.PerformanceMetric, error)
}
