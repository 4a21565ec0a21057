package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"storefront/internal/entities"
	"storefront/internal/gateway/executor"
	"storefront/internal/service/verification"
	retrierconfig "storefront/pkg/retrier"
)

const (
	serviceName = "coingecko"

	cacheSize        = 256
	quantityDecimals = 18
	apiKeyHeader     = "x-cg-demo-api-key"

	initialInterval = 100 * time.Millisecond
	maxInterval     = time.Second
	maxRetries      = 2
	randomization   = 0.5
	multiplier      = 2.0
)

type Config struct {
	BaseURL string
	APIKey  string
	Fiat    string
	TTL     time.Duration
	Timeout time.Duration
}

type price struct {
	value decimal.Decimal
	asOf  time.Time
}

// Oracle converts fiat amounts to asset quantities using CoinGecko simple prices.
type Oracle struct {
	client   executor.HTTPDoer
	config   Config
	executor *executor.Executor
	cache    *expirable.LRU[string, price]
	group    singleflight.Group
}

func New(client executor.HTTPDoer, config Config) *Oracle {
	config.Fiat = strings.ToLower(config.Fiat)
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Oracle{
		client: client,
		config: config,
		executor: executor.New(serviceName, retrierconfig.Config{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval,
			MaxElapsedTime:  config.Timeout,
			Randomization:   randomization,
			Multiplier:      multiplier,
			MaxRetries:      maxRetries,
		}),
		cache: expirable.NewLRU[string, price](cacheSize, nil, config.TTL),
	}
}

// FiatToCrypto returns how much of the asset identified by rateID is worth amount in fiat.
func (o *Oracle) FiatToCrypto(ctx context.Context, amount decimal.Decimal, rateID string) (*entities.Quote, error) {
	p, err := o.price(ctx, rateID)
	if err != nil {
		return nil, err
	}

	return &entities.Quote{
		Asset:    rateID,
		Quantity: amount.DivRound(p.value, quantityDecimals),
		AsOf:     p.asOf,
	}, nil
}

// Refresh fetches every rate in one request and replaces the cached values.
func (o *Oracle) Refresh(ctx context.Context, rateIDs []string) error {
	if len(rateIDs) == 0 {
		return nil
	}

	prices, err := o.fetch(ctx, rateIDs)
	if err != nil {
		return err
	}
	for id, p := range prices {
		o.cache.Add(id, p)
	}

	var missing []string
	for _, id := range rateIDs {
		if _, ok := prices[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: no %s price for %s", verification.ErrRateUnavailable, o.config.Fiat, strings.Join(missing, ","))
	}
	return nil
}

func (o *Oracle) price(ctx context.Context, rateID string) (price, error) {
	if p, ok := o.cache.Get(rateID); ok {
		return p, nil
	}

	v, err, _ := o.group.Do(rateID, func() (any, error) {
		if p, ok := o.cache.Get(rateID); ok {
			return p, nil
		}

		prices, err := o.fetch(ctx, []string{rateID})
		if err != nil {
			return price{}, err
		}
		p, ok := prices[rateID]
		if !ok {
			return price{}, fmt.Errorf("%w: no %s price for %s", verification.ErrRateUnavailable, o.config.Fiat, rateID)
		}
		o.cache.Add(rateID, p)
		return p, nil
	})
	if err != nil {
		return price{}, err
	}
	return v.(price), nil
}

func (o *Oracle) fetch(ctx context.Context, rateIDs []string) (map[string]price, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	ids := slices.Clone(rateIDs)
	slices.Sort(ids)

	query := url.Values{
		"ids":           []string{strings.Join(ids, ",")},
		"vs_currencies": []string{o.config.Fiat},
	}
	endpoint := o.config.BaseURL + "/simple/price?" + query.Encode()

	header := http.Header{}
	if o.config.APIKey != "" {
		header.Set(apiKeyHeader, o.config.APIKey)
	}

	var resp simplePriceResponse
	err := o.executor.Do(ctx, "SimplePrice", func(ctx context.Context) error {
		return executor.GetJSON(ctx, o.client, endpoint, header, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", verification.ErrRateUnavailable, err)
	}

	asOf := time.Now().UTC()
	result := make(map[string]price, len(resp))
	for id, quotes := range resp {
		value, ok := quotes[o.config.Fiat]
		if !ok || !value.IsPositive() {
			continue
		}
		result[id] = price{value: value, asOf: asOf}
	}
	return result, nil
}

// simplePriceResponse is {"tether": {"usd": 1.0}}.
type simplePriceResponse map[string]map[string]decimal.Decimal
