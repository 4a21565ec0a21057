// Package evm reads payment transactions from Ethereum-compatible JSON-RPC nodes.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"storefront/internal/entities"
	"storefront/internal/gateway/executor"
	"storefront/internal/service/verification"
	retrierconfig "storefront/pkg/retrier"
)

const (
	nativeDecimals = 18

	initialInterval = 200 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxRetries      = 2
	randomization   = 0.5
	multiplier      = 2.0
)

var transferEventSig = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// Client is the subset of ethclient.Client the lookup needs.
type Client interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type Config struct {
	Network     entities.Network
	NativeAsset string
	Timeout     time.Duration
}

type Lookup struct {
	client   Client
	config   Config
	executor *executor.Executor
}

// Dial connects to the JSON-RPC endpoint at rawURL.
func Dial(ctx context.Context, rawURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	return client, nil
}

func New(client Client, config Config) *Lookup {
	return &Lookup{
		client: client,
		config: config,
		executor: executor.New(string(config.Network)+"-rpc", retrierconfig.Config{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval,
			MaxElapsedTime:  config.Timeout,
			Randomization:   randomization,
			Multiplier:      multiplier,
			MaxRetries:      maxRetries,
			ShouldRetry:     shouldRetry,
		}),
	}
}

func (l *Lookup) Lookup(ctx context.Context, method entities.PaymentMethod, hash string) (*entities.TransactionFacts, error) {
	if method.Network != l.config.Network {
		return nil, fmt.Errorf("%w: %s lookup asked for %s", verification.ErrUnsupportedNetwork, l.config.Network, method.Network)
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	txHash := common.HexToHash(hash)

	var (
		tx        *types.Transaction
		isPending bool
	)
	err := l.executor.Do(ctx, "TransactionByHash", func(ctx context.Context) error {
		var err error
		tx, isPending, err = l.client.TransactionByHash(ctx, txHash)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	if isPending {
		return nil, verification.ErrTransactionPending
	}

	var receipt *types.Receipt
	err = l.executor.Do(ctx, "TransactionReceipt", func(ctx context.Context) error {
		var err error
		receipt, err = l.client.TransactionReceipt(ctx, txHash)
		return err
	})
	if errors.Is(err, ethereum.NotFound) {
		// mined transactions without a receipt yet are still being indexed by the node
		return nil, verification.ErrTransactionPending
	}
	if err != nil {
		return nil, classify(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", verification.ErrTransactionReverted, hash)
	}

	var head uint64
	err = l.executor.Do(ctx, "BlockNumber", func(ctx context.Context) error {
		var err error
		head, err = l.client.BlockNumber(ctx)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	facts := l.transfer(tx, receipt, method)
	facts.Hash = hash
	facts.Confirmations = confirmations(head, receipt.BlockNumber)
	return facts, nil
}

// transfer extracts what the transaction moved: the token Transfer log paying the wallet
// for token methods, the call value otherwise.
func (l *Lookup) transfer(tx *types.Transaction, receipt *types.Receipt, method entities.PaymentMethod) *entities.TransactionFacts {
	if method.IsToken() {
		contract := common.HexToAddress(method.TokenContract)
		wallet := common.HexToAddress(method.WalletAddress)

		var first *entities.TransactionFacts
		for _, log := range receipt.Logs {
			if log.Address != contract || len(log.Topics) != 3 || log.Topics[0] != transferEventSig {
				continue
			}

			to := common.BytesToAddress(log.Topics[2].Bytes())
			facts := &entities.TransactionFacts{
				ToAddress: to.Hex(),
				Asset:     method.Asset,
				Quantity:  decimal.NewFromBigInt(new(big.Int).SetBytes(log.Data), -method.Decimals),
			}
			if to == wallet {
				return facts
			}
			if first == nil {
				first = facts
			}
		}
		if first != nil {
			return first
		}
	}

	facts := &entities.TransactionFacts{
		Asset:    strings.ToUpper(l.config.NativeAsset),
		Quantity: decimal.NewFromBigInt(tx.Value(), -nativeDecimals),
	}
	if to := tx.To(); to != nil {
		facts.ToAddress = to.Hex()
	}
	return facts
}

func confirmations(head uint64, block *big.Int) uint64 {
	if block == nil || !block.IsUint64() {
		return 0
	}
	mined := block.Uint64()
	if head < mined {
		return 0
	}
	return head - mined + 1
}

func classify(err error) error {
	switch {
	case errors.Is(err, ethereum.NotFound):
		return verification.ErrTransactionNotFound
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %w", verification.ErrLookupUnavailable, err)
	}
}

func shouldRetry(err error) bool {
	return !errors.Is(err, ethereum.NotFound) && !errors.Is(err, context.Canceled)
}
