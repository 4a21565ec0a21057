// Package tron reads TRX and TRC-20 payments through the TronScan API.
package tron

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
	"storefront/internal/gateway/executor"
	"storefront/internal/service/verification"
	retrierconfig "storefront/pkg/retrier"
)

const (
	serviceName  = "tronscan"
	apiKeyHeader = "TRON-PRO-API-KEY"
	contractOK   = "SUCCESS"
	trxDecimals  = 6
	nativeAsset  = "TRX"

	initialInterval = 200 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxRetries      = 2
	randomization   = 0.5
	multiplier      = 2.0
)

type Config struct {
	BaseURL string
	APIKey  string
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

func (l *Lookup) Lookup(ctx context.Context, method entities.PaymentMethod, hash string) (*entities.TransactionFacts, error) {
	if method.Network != entities.NetworkTron {
		return nil, fmt.Errorf("%w: tron lookup asked for %s", verification.ErrUnsupportedNetwork, method.Network)
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	endpoint := l.config.BaseURL + "/api/transaction-info?" + url.Values{"hash": []string{hash}}.Encode()
	header := http.Header{}
	if l.config.APIKey != "" {
		header.Set(apiKeyHeader, l.config.APIKey)
	}

	var info transactionInfo
	err := l.executor.Do(ctx, "TransactionInfo", func(ctx context.Context) error {
		return executor.GetJSON(ctx, l.client, endpoint, header, &info)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", verification.ErrLookupUnavailable, err)
	}

	// unknown hashes come back as an empty object
	if info.Hash == "" {
		return nil, verification.ErrTransactionNotFound
	}
	if !info.Confirmed {
		return nil, verification.ErrTransactionPending
	}
	if info.ContractRet != "" && info.ContractRet != contractOK {
		return nil, fmt.Errorf("%w: %s", verification.ErrTransactionReverted, info.ContractRet)
	}

	facts, err := info.transfer(method)
	if err != nil {
		return nil, err
	}
	facts.Hash = hash
	facts.Confirmations = max(info.Confirmations, 1)
	return facts, nil
}

type transactionInfo struct {
	Hash          string `json:"hash"`
	Confirmed     bool   `json:"confirmed"`
	Confirmations uint64 `json:"confirmations"`
	ContractRet   string `json:"contractRet"`
	ToAddress     string `json:"toAddress"`
	ContractData  struct {
		Amount    decimal.Decimal `json:"amount"`
		ToAddress string          `json:"to_address"`
	} `json:"contractData"`
	TRC20Transfers []trc20Transfer `json:"trc20TransferInfo"`
}

type trc20Transfer struct {
	ContractAddress string `json:"contract_address"`
	ToAddress       string `json:"to_address"`
	AmountStr       string `json:"amount_str"`
	Decimals        int32  `json:"decimals"`
	Symbol          string `json:"symbol"`
}

func (i transactionInfo) transfer(method entities.PaymentMethod) (*entities.TransactionFacts, error) {
	if method.IsToken() {
		var first *entities.TransactionFacts
		for _, t := range i.TRC20Transfers {
			if !strings.EqualFold(t.ContractAddress, method.TokenContract) {
				continue
			}

			raw, err := decimal.NewFromString(t.AmountStr)
			if err != nil {
				return nil, fmt.Errorf("%w: bad trc20 amount %q", verification.ErrLookupUnavailable, t.AmountStr)
			}
			facts := &entities.TransactionFacts{
				ToAddress: t.ToAddress,
				Asset:     method.Asset,
				Quantity:  raw.Shift(-method.Decimals),
			}
			if strings.EqualFold(t.ToAddress, method.WalletAddress) {
				return facts, nil
			}
			if first == nil {
				first = facts
			}
		}
		if first != nil {
			return first, nil
		}
		if len(i.TRC20Transfers) > 0 {
			t := i.TRC20Transfers[0]
			return &entities.TransactionFacts{ToAddress: t.ToAddress, Asset: strings.ToUpper(t.Symbol)}, nil
		}
	}

	to := i.ContractData.ToAddress
	if to == "" {
		to = i.ToAddress
	}
	return &entities.TransactionFacts{
		ToAddress: to,
		Asset:     nativeAsset,
		Quantity:  i.ContractData.Amount.Shift(-trxDecimals),
	}, nil
}
