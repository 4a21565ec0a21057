package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type (
	Tasks struct {
		VerificationReaperInterval time.Duration
		VerificationStaleAfter     time.Duration
		RateRefreshInterval        time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter capacity
		RateLimiterBurst int           // middleware rate limiter refill per second
		PprofEnabled     bool
		PprofPort        string
		GRPCHealthPort   string
		CORSOrigins      []string
	}

	Storage struct {
		Driver  string
		Migrate bool
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Verification struct {
		Timeout            time.Duration
		AmountTolerance    decimal.Decimal
		PaymentMethodsFile string
	}

	Rates struct {
		BaseURL string
		APIKey  string
		Fiat    string
		TTL     time.Duration
		Timeout time.Duration
	}

	Chain struct {
		EthereumRPCURL string
		BSCRPCURL      string
		TronScanURL    string
		TronScanAPIKey string
		BlockCypherURL string
		BlockCypherKey string
		RequestTimeout time.Duration
	}

	Kafka struct {
		Enabled         bool
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderStatusChanged OrderStatusChanged
	}

	OrderStatusChanged struct {
		ProcessTimeout time.Duration
	}

	Notification struct {
		WebhookURL string
		Timeout    time.Duration
	}

	Config struct {
		LogLevel     string
		Tasks        Tasks
		Server       HTTPServer
		Storage      Storage
		Database     Database
		Verification Verification
		Rates        Rates
		Chain        Chain
		Kafka        Kafka
		Notification Notification
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// LoadNotificationWorker reads the same environment as Load but only requires what the
// notification worker uses.
func LoadNotificationWorker() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := cfg.ValidateNotificationWorker(); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// ValidateNotificationWorker checks the settings only the notification worker needs.
func (c *Config) ValidateNotificationWorker() error {
	if !c.Kafka.Enabled {
		return errors.New("KAFKA_ENABLED must be true for the notification worker")
	}
	if c.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}
	if c.Kafka.Handlers.OrderStatusChanged.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_ORDER_STATUS_CHANGED_PROCESS_TIMEOUT is required")
	}
	if c.Notification.WebhookURL == "" {
		return errors.New("NOTIFICATION_WEBHOOK_URL is required")
	}
	return nil
}

func loadFromEnv() (*Config, error) {
	reaperInterval, err := osGetEnvDuration("BACKGROUND_VERIFICATION_REAPER_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	staleAfter, err := osGetEnvDuration("BACKGROUND_VERIFICATION_STALE_AFTER", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	migrate, err := osGetBool("POSTGRES_MIGRATE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	verificationTimeout, err := osGetEnvDuration("VERIFICATION_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	tolerance, err := osGetDecimal("VERIFICATION_AMOUNT_TOLERANCE", decimal.RequireFromString("0.03"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	ratesTTL, err := osGetEnvDuration("RATES_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	ratesTimeout, err := osGetEnvDuration("RATES_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	chainTimeout, err := osGetEnvDuration("CHAIN_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	kafkaEnabled, err := osGetBool("KAFKA_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderStatusChangedTimeout, err := osGetEnvDuration("KAFKA_HANDLER_ORDER_STATUS_CHANGED_PROCESS_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	notificationTimeout, err := osGetEnvDuration("NOTIFICATION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		LogLevel: os.Getenv("LOG_LEVEL"),
		Tasks: Tasks{
			VerificationReaperInterval: reaperInterval,
			VerificationStaleAfter:     staleAfter,
			RateRefreshInterval:        ratesTTL / 2,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
			GRPCHealthPort:   os.Getenv("GRPC_HEALTH_PORT"),
			CORSOrigins:      osGetList("CORS_ORIGINS", []string{"*"}),
		},
		Storage: Storage{
			Driver:  osGetString("STORAGE_DRIVER", StorageDriverPostgres),
			Migrate: migrate,
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Verification: Verification{
			Timeout:            verificationTimeout,
			AmountTolerance:    tolerance,
			PaymentMethodsFile: os.Getenv("PAYMENT_METHODS_FILE"),
		},
		Rates: Rates{
			BaseURL: osGetString("RATES_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:  os.Getenv("RATES_API_KEY"),
			Fiat:    osGetString("RATES_FIAT", "usd"),
			TTL:     ratesTTL,
			Timeout: ratesTimeout,
		},
		Chain: Chain{
			EthereumRPCURL: osGetString("CHAIN_ETHEREUM_RPC_URL", "https://ethereum-rpc.publicnode.com"),
			BSCRPCURL:      osGetString("CHAIN_BSC_RPC_URL", "https://bsc-dataseed.binance.org"),
			TronScanURL:    osGetString("CHAIN_TRONSCAN_URL", "https://apilist.tronscanapi.com"),
			TronScanAPIKey: os.Getenv("CHAIN_TRONSCAN_API_KEY"),
			BlockCypherURL: osGetString("CHAIN_BLOCKCYPHER_URL", "https://api.blockcypher.com/v1"),
			BlockCypherKey: os.Getenv("CHAIN_BLOCKCYPHER_TOKEN"),
			RequestTimeout: chainTimeout,
		},
		Kafka: Kafka{
			Enabled:         kafkaEnabled,
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			Topic:           osGetString("KAFKA_TOPIC", "order.status.changed"),
			ConsumerGroup:   os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderStatusChanged: OrderStatusChanged{
					ProcessTimeout: orderStatusChangedTimeout,
				},
			},
		},
		Notification: Notification{
			WebhookURL: os.Getenv("NOTIFICATION_WEBHOOK_URL"),
			Timeout:    notificationTimeout,
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	switch cfg.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if err := validateDatabase(&cfg.Database); err != nil {
			return err
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, cfg.Storage.Driver)
	}

	if cfg.Verification.AmountTolerance.IsNegative() || cfg.Verification.AmountTolerance.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("VERIFICATION_AMOUNT_TOLERANCE must be in [0, 1)")
	}
	if cfg.Verification.Timeout <= cfg.Chain.RequestTimeout {
		return errors.New("VERIFICATION_TIMEOUT must be greater than CHAIN_REQUEST_TIMEOUT")
	}

	if cfg.Rates.TTL < time.Second {
		return errors.New("RATES_TTL must be at least 1s")
	}

	if cfg.Kafka.Enabled {
		if cfg.Kafka.Brokers == "" {
			return errors.New("KAFKA_BROKERS is required")
		}
		if cfg.Kafka.Topic == "" {
			return errors.New("KAFKA_TOPIC is required")
		}
		if cfg.Kafka.Sarama.Version == "" {
			return errors.New("KAFKA_SARAMA_VERSION is required")
		}
	}

	return nil
}

func validateDatabase(db *Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	return nil
}

func osGetString(s, fallback string) string {
	val := os.Getenv(s)
	if val == "" {
		return fallback
	}
	return val
}

func osGetList(s string, fallback []string) []string {
	val := os.Getenv(s)
	if val == "" {
		return fallback
	}

	parts := strings.Split(val, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetDecimal(s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
