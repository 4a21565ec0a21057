// Package utxo reads Bitcoin and Litecoin payments through the BlockCypher API.
package utxo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
	"storefront/internal/gateway/executor"
	"storefront/internal/service/verification"
	retrierconfig "storefront/pkg/retrier"
)

const (
	serviceName = "blockcypher"

	initialInterval = 200 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxRetries      = 2
	randomization   = 0.5
	multiplier      = 2.0
)

// coins maps a network to its BlockCypher chain path.
var coins = map[entities.Network]string{
	entities.NetworkBitcoin:  "btc/main",
	entities.NetworkLitecoin: "ltc/main",
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Lookup struct {
	client   executor.HTTPDoer
	config   Config
	executor *executor.Executor
}

func New(client executor.HTTPDoer, config Config) *Lookup {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Lookup{
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
	}
}

// Networks lists the networks this lookup serves.
func (l *Lookup) Networks() []entities.Network {
	return []entities.Network{entities.NetworkBitcoin, entities.NetworkLitecoin}
}

func (l *Lookup) Lookup(ctx context.Context, method entities.PaymentMethod, hash string) (*entities.TransactionFacts, error) {
	coin, ok := coins[method.Network]
	if !ok {
		return nil, fmt.Errorf("%w: utxo lookup asked for %s", verification.ErrUnsupportedNetwork, method.Network)
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	endpoint := l.config.BaseURL + "/" + coin + "/txs/" + url.PathEscape(hash)
	if l.config.Token != "" {
		endpoint += "?" + url.Values{"token": []string{l.config.Token}}.Encode()
	}

	var tx transaction
	err := l.executor.Do(ctx, "GetTransaction", func(ctx context.Context) error {
		return executor.GetJSON(ctx, l.client, endpoint, nil, &tx)
	})
	if err != nil {
		var statusErr *executor.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, verification.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: %w", verification.ErrLookupUnavailable, err)
	}

	facts := tx.payment(method)
	facts.Hash = hash
	facts.Confirmations = tx.Confirmations
	return facts, nil
}

type transaction struct {
	Confirmations uint64   `json:"confirmations"`
	Outputs       []output `json:"outputs"`
}

type output struct {
	Value     int64    `json:"value"`
	Addresses []string `json:"addresses"`
}

// payment sums every output paying the wallet. Without such an output the first output
// is reported so the address mismatch is visible.
func (t transaction) payment(method entities.PaymentMethod) *entities.TransactionFacts {
	var (
		paid  int64
		found bool
	)
	for _, o := range t.Outputs {
		if slices.Contains(o.Addresses, method.WalletAddress) {
			paid += o.Value
			found = true
		}
	}

	if found {
		return &entities.TransactionFacts{
			ToAddress: method.WalletAddress,
			Asset:     method.Asset,
			Quantity:  decimal.New(paid, -method.Decimals),
		}
	}

	facts := &entities.TransactionFacts{Asset: method.Asset}
	if len(t.Outputs) > 0 {
		first := t.Outputs[0]
		if len(first.Addresses) > 0 {
			facts.ToAddress = first.Addresses[0]
		}
		facts.Quantity = decimal.New(first.Value, -method.Decimals)
	}
	return facts
}
