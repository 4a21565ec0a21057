package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/entities"
	"storefront/internal/gateway/chain"
	"storefront/internal/gateway/chain/evm"
	"storefront/internal/gateway/chain/tron"
	"storefront/internal/gateway/chain/utxo"
	"storefront/internal/gateway/events"
	"storefront/internal/gateway/notification"
	"storefront/internal/gateway/rates"
	"storefront/internal/handlers/kafka-consumer/order_status_changed"
	"storefront/internal/handlers/rest/admin_orders_get"
	"storefront/internal/handlers/rest/admin_stats_get"
	"storefront/internal/handlers/rest/order_get"
	"storefront/internal/handlers/rest/order_post"
	"storefront/internal/handlers/rest/order_status_patch"
	"storefront/internal/handlers/rest/order_transaction_put"
	"storefront/internal/handlers/rest/order_verify_post"
	"storefront/internal/handlers/rest/performance_get"
	"storefront/internal/handlers/rest/performance_post"
	"storefront/internal/handlers/rest/product_get"
	"storefront/internal/handlers/rest/product_post"
	"storefront/internal/handlers/rest/products_get"
	"storefront/internal/handlers/tasks/rate_refresh"
	"storefront/internal/handlers/tasks/verification_reaper"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/factory/order_handle"
	"storefront/internal/pkg/kafka"
	"storefront/internal/pkg/paymentmethods"
	catalogRepo "storefront/internal/repository/catalog"
	orderRepo "storefront/internal/repository/order"
	catalogService "storefront/internal/service/catalog"
	orderService "storefront/internal/service/order"
	"storefront/internal/service/verification"
	"storefront/pkg/background"
	"storefront/pkg/logger"
	"storefront/pkg/querier"
	"storefront/pkg/tx"
)

const (
	httpDialTimeout         = 5 * time.Second
	httpIdleConnTimeout     = 90 * time.Second
	httpMaxIdleConnsPerHost = 10
)

type Application struct {
	Catalog           ServiceCatalog
	Orders            ServiceOrder
	PaymentMethods    *paymentmethods.Table
	BackgroundWorkers *background.Worker
}

type ServiceCatalog interface {
	products_get.Service
	product_get.Service
	product_post.Service
	performance_get.Service
	performance_post.Service

	SeedDefaults(ctx context.Context) (int, error)
}

type ServiceOrder interface {
	order_post.Service
	order_get.Service
	order_transaction_put.Service
	order_verify_post.Service
	order_status_patch.Service
	admin_orders_get.Service
	admin_stats_get.Service
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event entities.OrderStatusChanged) error
}

type NotificationWorker struct {
	Factory *order_handle.StatusHandlerFactory
}

var _ order_status_changed.HandlerFactory = (*order_handle.StatusHandlerFactory)(nil)

// provideHTTPClient is shared by every outbound gateway. Per-call deadlines come from
// the gateway executors, so the client itself has no overall timeout.
func provideHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: httpDialTimeout}).DialContext,
			MaxIdleConnsPerHost: httpMaxIdleConnsPerHost,
			IdleConnTimeout:     httpIdleConnTimeout,
			TLSHandshakeTimeout: httpDialTimeout,
		},
	}
}

func providePaymentMethods(cfg *config.Config) (*paymentmethods.Table, error) {
	table, err := paymentmethods.Load(cfg.Verification.PaymentMethodsFile)
	if err != nil {
		return nil, fmt.Errorf("payment methods: %w", err)
	}
	return table, nil
}

func provideRateOracle(client *http.Client, cfg *config.Config) *rates.Oracle {
	return rates.New(client, rates.Config{
		BaseURL: cfg.Rates.BaseURL,
		APIKey:  cfg.Rates.APIKey,
		Fiat:    cfg.Rates.Fiat,
		TTL:     cfg.Rates.TTL,
		Timeout: cfg.Rates.Timeout,
	})
}

// provideChainRegistry builds one lookup per network. ethclient over HTTP does not
// connect until the first call, so an unreachable node only fails verifications.
func provideChainRegistry(ctx context.Context, client *http.Client, cfg *config.Config) (*chain.Registry, func(), error) {
	ethClient, err := evm.Dial(ctx, cfg.Chain.EthereumRPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("ethereum rpc: %w", err)
	}

	bscClient, err := evm.Dial(ctx, cfg.Chain.BSCRPCURL)
	if err != nil {
		ethClient.Close()
		return nil, nil, fmt.Errorf("bsc rpc: %w", err)
	}

	cleanup := func() {
		ethClient.Close()
		bscClient.Close()
	}

	btc := utxo.New(client, utxo.Config{
		BaseURL: cfg.Chain.BlockCypherURL,
		Token:   cfg.Chain.BlockCypherKey,
		Timeout: cfg.Chain.RequestTimeout,
	})

	registry := chain.NewRegistry().
		Register(tron.New(client, tron.Config{
			BaseURL: cfg.Chain.TronScanURL,
			APIKey:  cfg.Chain.TronScanAPIKey,
			Timeout: cfg.Chain.RequestTimeout,
		}), entities.NetworkTron).
		Register(evm.New(ethClient, evm.Config{
			Network:     entities.NetworkEthereum,
			NativeAsset: "eth",
			Timeout:     cfg.Chain.RequestTimeout,
		}), entities.NetworkEthereum).
		Register(evm.New(bscClient, evm.Config{
			Network:     entities.NetworkBSC,
			NativeAsset: "bnb",
			Timeout:     cfg.Chain.RequestTimeout,
		}), entities.NetworkBSC).
		Register(btc, btc.Networks()...)

	return registry, cleanup, nil
}

// provideEventPublisher returns the Kafka publisher when KAFKA_ENABLED is set and a
// no-op otherwise, so the service runs without a broker.
func provideEventPublisher(ctx context.Context, log logger.Logger, cfg *config.Config) (EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		log.Info("kafka disabled, status events are not published")
		return events.Discard{}, func() {}, nil
	}

	producer, err := kafka.NewSyncProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	cleanup := func() {
		if err := producer.Close(); err != nil {
			log.Error("failed to close kafka producer", logger.NewField("error", err))
		}
	}
	return events.NewPublisher(producer, cfg.Kafka.Topic), cleanup, nil
}

func provideVerificationConfig(cfg *config.Config) verification.Config {
	return verification.Config{
		Timeout:   cfg.Verification.Timeout,
		Tolerance: cfg.Verification.AmountTolerance,
	}
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideCatalogRepository(querier *querier.Querier) *catalogRepo.Repository {
	return catalogRepo.New(querier)
}

func provideServiceCatalog(
	repository catalogService.Repository,
	txManager catalogService.TxManager,
) *catalogService.Catalog {
	return catalogService.New(repository, txManager)
}

func provideVerificationEngine(
	repository verification.Repository,
	methods verification.PaymentMethods,
	lookup verification.ChainLookup,
	oracle verification.RateOracle,
	publisher verification.EventPublisher,
	txManager verification.TxManager,
	config verification.Config,
	log logger.Logger,
) *verification.Engine {
	return verification.New(repository, methods, lookup, oracle, publisher, txManager, config, log)
}

func provideServiceOrder(
	repository orderService.Repository,
	catalog orderService.ProductCatalog,
	methods orderService.PaymentMethods,
	verifier orderService.Verifier,
	policy orderService.TransitionPolicy,
	publisher orderService.EventPublisher,
	log logger.Logger,
) *orderService.Order {
	return orderService.New(repository, catalog, methods, verifier, policy, publisher, log)
}

func provideVerificationReaperTask(
	log logger.Logger,
	service verification_reaper.Service,
	cfg *config.Config,
) *verification_reaper.VerificationReaper {
	return verification_reaper.NewVerificationReaper(
		log,
		service,
		cfg.Tasks.VerificationReaperInterval,
		cfg.Tasks.VerificationStaleAfter,
	)
}

func provideRateRefreshTask(
	log logger.Logger,
	oracle rate_refresh.Oracle,
	sources rate_refresh.RateSources,
	cfg *config.Config,
) *rate_refresh.RateRefresh {
	return rate_refresh.NewRateRefresh(log, oracle, sources, cfg.Tasks.RateRefreshInterval)
}

func provideTaskList(
	verificationReaperTask *verification_reaper.VerificationReaper,
	rateRefreshTask *rate_refresh.RateRefresh,
) []background.Task {
	return []background.Task{
		verificationReaperTask,
		rateRefreshTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}

func provideWebhook(client *http.Client, cfg *config.Config) *notification.Webhook {
	return notification.New(client, notification.Config{
		URL:     cfg.Notification.WebhookURL,
		Timeout: cfg.Notification.Timeout,
	})
}
