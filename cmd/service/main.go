package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	application "storefront/internal/app"
	"storefront/internal/handlers/rest/admin_orders_get"
	"storefront/internal/handlers/rest/admin_stats_get"
	"storefront/internal/handlers/rest/healthcheck_head"
	"storefront/internal/handlers/rest/order_get"
	"storefront/internal/handlers/rest/order_post"
	"storefront/internal/handlers/rest/order_status_patch"
	"storefront/internal/handlers/rest/order_transaction_put"
	"storefront/internal/handlers/rest/order_verify_post"
	"storefront/internal/handlers/rest/payment_methods_get"
	"storefront/internal/handlers/rest/performance_get"
	"storefront/internal/handlers/rest/performance_post"
	"storefront/internal/handlers/rest/ping_get"
	"storefront/internal/handlers/rest/product_get"
	"storefront/internal/handlers/rest/product_post"
	"storefront/internal/handlers/rest/products_get"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/dotenv"
	"storefront/internal/pkg/grpchealth"
	metrics_system "storefront/internal/pkg/metrics"
	"storefront/internal/pkg/middlewares/cors"
	"storefront/internal/pkg/middlewares/graceful_shutdown"
	"storefront/internal/pkg/middlewares/metrics"
	"storefront/internal/pkg/middlewares/rate_limiter"
	"storefront/internal/pkg/middlewares/timeout"
	"storefront/internal/pkg/migrations"
	"storefront/internal/pkg/postgres"
	"storefront/pkg/logger"
	"storefront/pkg/logger/zap_adapter"
	"storefront/pkg/token_bucket"
)

const serviceName = "storefront"

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting storefront application")

	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(".env"); err != nil {
			mainLog.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	} else {
		mainLog.Warn("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // shutdown contexts derive from context.Background on purpose
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With(logger.NewField("storage", cfg.Storage.Driver))

	var (
		businessApp *application.Application
		cleanup     func()
		pingers     []healthcheck_head.Pinger
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()

		if cfg.Storage.Migrate {
			if err := migrations.Up(ctx, log, pool); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}

		businessApp, cleanup, err = application.InitializePostgresApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, cfg)
		if err != nil {
			return fmt.Errorf("business logic: %w", err)
		}
		pingers = append(pingers, pool)
	default:
		var err error
		businessApp, cleanup, err = application.InitializeMemoryApplication(ctx, log, cfg)
		if err != nil {
			return fmt.Errorf("business logic: %w", err)
		}
		runLog.Warn("in-memory storage: orders are lost on restart")
	}
	defer cleanup()

	seeded, err := businessApp.Catalog.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded > 0 {
		runLog.Info("catalog seeded", logger.NewField("products", seeded))
	}

	// ongoingCtx feeds BaseContext and must survive SIGTERM. It is cancelled only after
	// server.Shutdown() so in-flight requests can finish.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	metrics_system.StartSystemMetricsCollector(ongoingCtx, 0)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, pingers, cfg.Server),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var healthServer *grpchealth.Server
	var healthServerErr chan error
	if cfg.Server.GRPCHealthPort != "" {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCHealthPort))
		if err != nil {
			return fmt.Errorf("grpc health listen: %w", err)
		}

		healthServer = grpchealth.New(log, serviceName)
		healthServerErr = make(chan error, 1)
		go func() {
			defer close(healthServerErr)
			if err := healthServer.Serve(lis); err != nil {
				healthServerErr <- err
			}
		}()
	}

	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				pprofServerErr <- err
			}
		}()
	}

	// Nil channels of disabled servers never fire.
	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-healthServerErr:
		return fmt.Errorf("grpc health server: %w", err)
	case err := <-pprofServerErr:
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)
	if healthServer != nil {
		healthServer.SetNotServing()
	}

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx must not derive from ctx, which is already cancelled here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}
	if healthServer != nil {
		healthServer.Stop(shutdownCtx)
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	pingers []healthcheck_head.Pinger,
	cfg config.HTTPServer,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(mux.CORSMethodMiddleware(router))
	router.Use(cors.Middleware(cfg.CORSOrigins))
	router.Use(timeout.Middleware(cfg.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.RateLimiterQPS, float64(cfg.RateLimiterBurst))))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pingers...)).Methods(http.MethodHead)
	router.Handle("/ping", ping_get.New(log)).Methods(http.MethodGet)

	router.Handle("/api/products", products_get.New(log, app.Catalog)).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/api/products", product_post.New(log, app.Catalog)).Methods(http.MethodPost, http.MethodOptions)
	router.Handle("/api/products/{id}", product_get.New(log, app.Catalog)).Methods(http.MethodGet, http.MethodOptions)

	router.Handle("/api/performance", performance_get.New(log, app.Catalog)).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/api/performance", performance_post.New(log, app.Catalog)).Methods(http.MethodPost, http.MethodOptions)

	router.Handle("/api/payment-methods", payment_methods_get.New(log, app.PaymentMethods)).Methods(http.MethodGet, http.MethodOptions)

	router.Handle("/api/orders", order_post.New(log, app.Orders)).Methods(http.MethodPost, http.MethodOptions)
	router.Handle("/api/orders/{id}", order_get.New(log, app.Orders)).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/api/orders/{id}/transaction", order_transaction_put.New(log, app.Orders)).Methods(http.MethodPut, http.MethodOptions)
	router.Handle("/api/orders/{id}/verify", order_verify_post.New(log, app.Orders)).Methods(http.MethodPost, http.MethodOptions)
	router.Handle("/api/orders/{id}/status", order_status_patch.New(log, app.Orders)).Methods(http.MethodPatch, http.MethodOptions)

	router.Handle("/api/admin/stats", admin_stats_get.New(log, app.Orders)).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/api/admin/orders", admin_orders_get.New(log, app.Orders)).Methods(http.MethodGet, http.MethodOptions)

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods(http.MethodHead)
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
