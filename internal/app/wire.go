//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/gateway/chain"
	"storefront/internal/gateway/notification"
	"storefront/internal/gateway/rates"
	"storefront/internal/handlers/tasks/rate_refresh"
	"storefront/internal/handlers/tasks/verification_reaper"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/factory/order_handle"
	"storefront/internal/pkg/factory/status_transition"
	"storefront/internal/pkg/paymentmethods"
	catalogRepo "storefront/internal/repository/catalog"
	"storefront/internal/repository/memory"
	orderRepo "storefront/internal/repository/order"
	catalogService "storefront/internal/service/catalog"
	orderService "storefront/internal/service/order"
	"storefront/internal/service/verification"
	"storefront/pkg/logger"
	"storefront/pkg/tx"
)

var serviceSet = wire.NewSet(
	provideHTTPClient,
	providePaymentMethods,
	provideRateOracle,
	provideChainRegistry,
	provideEventPublisher,
	provideVerificationConfig,
	status_transition.New,

	provideServiceCatalog,
	provideVerificationEngine,
	provideServiceOrder,

	provideVerificationReaperTask,
	provideRateRefreshTask,
	provideTaskList,
	provideBackgroundWorkers,

	wire.Struct(new(Application), "*"),

	wire.Bind(new(ServiceCatalog), new(*catalogService.Catalog)),
	wire.Bind(new(ServiceOrder), new(*orderService.Order)),

	wire.Bind(new(orderService.ProductCatalog), new(*catalogService.Catalog)),
	wire.Bind(new(orderService.PaymentMethods), new(*paymentmethods.Table)),
	wire.Bind(new(orderService.Verifier), new(*verification.Engine)),
	wire.Bind(new(orderService.TransitionPolicy), new(*status_transition.Policy)),
	wire.Bind(new(orderService.EventPublisher), new(EventPublisher)),

	wire.Bind(new(verification.PaymentMethods), new(*paymentmethods.Table)),
	wire.Bind(new(verification.ChainLookup), new(*chain.Registry)),
	wire.Bind(new(verification.RateOracle), new(*rates.Oracle)),
	wire.Bind(new(verification.EventPublisher), new(EventPublisher)),

	wire.Bind(new(verification_reaper.Service), new(*verification.Engine)),
	wire.Bind(new(rate_refresh.Oracle), new(*rates.Oracle)),
	wire.Bind(new(rate_refresh.RateSources), new(*paymentmethods.Table)),
)

// InitializePostgresApplication for cmd/service with STORAGE_DRIVER=postgres.
func InitializePostgresApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*Application, func(), error) {
	wire.Build(
		serviceSet,

		provideTxManager,
		provideQuerier,
		provideOrderRepository,
		provideCatalogRepository,

		wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(verification.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(catalogService.Repository), new(*catalogRepo.Repository)),

		wire.Bind(new(catalogService.TxManager), new(*tx.Manager)),
		wire.Bind(new(verification.TxManager), new(*tx.Manager)),
	)
	return nil, nil, nil
}

// InitializeMemoryApplication for cmd/service with STORAGE_DRIVER=memory.
func InitializeMemoryApplication(
	ctx context.Context,
	log logger.Logger,
	cfg *config.Config,
) (*Application, func(), error) {
	wire.Build(
		serviceSet,

		memory.New,
		memory.NewTxManager,

		wire.Bind(new(orderService.Repository), new(*memory.Store)),
		wire.Bind(new(verification.Repository), new(*memory.Store)),
		wire.Bind(new(catalogService.Repository), new(*memory.Store)),

		wire.Bind(new(catalogService.TxManager), new(*memory.TxManager)),
		wire.Bind(new(verification.TxManager), new(*memory.TxManager)),
	)
	return nil, nil, nil
}

// InitializeNotificationWorker for cmd/worker-order-notification.
func InitializeNotificationWorker(
	ctx context.Context,
	log logger.Logger,
	cfg *config.Config,
) (*NotificationWorker, error) {
	wire.Build(
		provideHTTPClient,
		provideWebhook,
		order_handle.NewStatusHandlerFactory,

		wire.Bind(new(order_handle.Notifier), new(*notification.Webhook)),

		wire.Struct(new(NotificationWorker), "*"),
	)
	return nil, nil
}
