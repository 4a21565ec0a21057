//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_methods_get_test
package payment_methods_get

import (
	"storefront/internal/entities"
	"storefront/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type PaymentMethods interface {
	All() []entities.PaymentMethod
}
