package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
	"storefront/internal/service/order"
	"storefront/pkg/logger"
)

const (
	defaultTimeout = 20 * time.Second
	writeTimeout   = 5 * time.Second

	msgVerified          = "payment verified"
	msgAlreadyUsed       = "transaction already used"
	msgRateUnavailable   = "exchange rate unavailable"
	msgLookupUnavailable = "chain lookup temporarily unavailable, retry later"
)

const (
	outcomeVerified    = "verified"
	outcomeFailed      = "failed"
	outcomeNotFound    = "not_found"
	outcomeAwaiting    = "awaiting_confirmations"
	outcomeUnavailable = "unavailable"
	outcomeReplay      = "replay"
)

type Config struct {
	Timeout   time.Duration
	Tolerance decimal.Decimal
}

// Engine decides whether the transaction attached to an order really paid for it.
type Engine struct {
	repository Repository
	methods    PaymentMethods
	chain      ChainLookup
	rates      RateOracle
	publisher  EventPublisher
	txManager  TxManager
	config     Config
	log        logger.Logger
}

func New(
	repository Repository,
	methods PaymentMethods,
	chain ChainLookup,
	rates RateOracle,
	publisher EventPublisher,
	txManager TxManager,
	config Config,
	log logger.Logger,
) *Engine {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	return &Engine{
		repository: repository,
		methods:    methods,
		chain:      chain,
		rates:      rates,
		publisher:  publisher,
		txManager:  txManager,
		config:     config,
		log:        log.With(logger.NewField("service", "verification")),
	}
}

// outcome is the terminal write of one attempt.
type outcome struct {
	verification entities.VerificationStatusType
	status       *entities.OrderStatusType
	message      string
	label        string
}

func (e *Engine) Verify(ctx context.Context, orderID string) (*entities.VerificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	current, err := e.repository.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	if current.VerificationStatus == entities.VerificationVerified {
		return &entities.VerificationResult{Success: true, Message: successMessage(current), Order: current}, nil
	}
	if current.TransactionHash == "" {
		return nil, ErrTransactionHashRequired
	}

	switch current.VerificationStatus {
	case entities.VerificationVerifying:
		return nil, order.ErrVerificationInProgress
	case entities.VerificationFailed:
		return &entities.VerificationResult{Success: false, Message: current.VerificationMessage, Order: current}, nil
	}

	if current.Status != entities.OrderPending {
		return &entities.VerificationResult{
			Success: false,
			Message: fmt.Sprintf("order is %s, verification does not apply", current.Status),
			Order:   current,
		}, nil
	}

	verifying := entities.VerificationVerifying
	notVerified := entities.VerificationNotVerified
	pending := entities.OrderPending
	claimed, err := e.repository.Update(ctx, entities.OrderModify{
		ID:                         &current.ID,
		VerificationStatus:         &verifying,
		ExpectedVerificationStatus: &notVerified,
		ExpectedStatus:             &pending,
	})
	if err != nil {
		if errors.Is(err, order.ErrConcurrencyConflict) {
			return nil, order.ErrVerificationInProgress
		}
		return nil, fmt.Errorf("start verification: %w", err)
	}

	method, ok := e.methods.Get(claimed.PaymentMethod)
	if !ok {
		msg := fmt.Sprintf("unsupported payment method %s", claimed.PaymentMethod)
		return e.finish(ctx, claimed, entities.Network("unknown"), fatal(msg, outcomeFailed))
	}

	start := time.Now()
	result, err := e.attempt(ctx, claimed, method)
	VerificationDuration.WithLabelValues(method.Network.String()).Observe(time.Since(start).Seconds())
	return result, err
}

func (e *Engine) attempt(ctx context.Context, current *entities.Order, method entities.PaymentMethod) (*entities.VerificationResult, error) {
	owner, err := e.repository.FindByTransactionHash(ctx, method.Network, current.TransactionHash)
	switch {
	case err == nil && owner.ID != current.ID:
		return e.finish(ctx, current, method.Network, fatal(msgAlreadyUsed, outcomeReplay))
	case err != nil && !errors.Is(err, order.ErrOrderNotFound):
		e.log.Warn("anti-replay lookup",
			logger.NewField("order_id", current.ID),
			logger.NewField("error", err),
		)
		return e.finish(ctx, current, method.Network, revert(msgLookupUnavailable, outcomeUnavailable))
	}

	facts, err := e.chain.Lookup(ctx, method, current.TransactionHash)
	if err != nil {
		return e.finish(ctx, current, method.Network, classifyLookupError(err, method))
	}

	if facts.Confirmations < method.MinConfirmations {
		return e.finish(ctx, current, method.Network, awaiting(facts.Confirmations, method.MinConfirmations))
	}

	if !sameAddress(method.Network, facts.ToAddress, method.WalletAddress) {
		msg := fmt.Sprintf("recipient address mismatch: expected %s, saw %s", method.WalletAddress, facts.ToAddress)
		return e.finish(ctx, current, method.Network, fatal(msg, outcomeFailed))
	}
	if !strings.EqualFold(facts.Asset, method.Asset) {
		msg := fmt.Sprintf("asset mismatch: expected %s, saw %s", method.Asset, facts.Asset)
		return e.finish(ctx, current, method.Network, fatal(msg, outcomeFailed))
	}

	quote, err := e.rates.FiatToCrypto(ctx, current.Amount, method.RateID)
	if err != nil {
		e.log.Warn("rate lookup",
			logger.NewField("order_id", current.ID),
			logger.NewField("rate_id", method.RateID),
			logger.NewField("error", err),
		)
		return e.finish(ctx, current, method.Network, revert(msgRateUnavailable, outcomeUnavailable))
	}

	if !WithinTolerance(facts.Quantity, quote.Quantity, e.config.Tolerance) {
		msg := fmt.Sprintf("amount outside tolerance: expected %s, saw %s %s",
			quote.Quantity.Round(method.Decimals).String(), facts.Quantity.String(), method.Asset)
		return e.finish(ctx, current, method.Network, fatal(msg, outcomeFailed))
	}

	return e.commit(ctx, current, method, facts)
}

// commit claims the transaction and marks the order verified in one store transaction.
func (e *Engine) commit(
	ctx context.Context,
	current *entities.Order,
	method entities.PaymentMethod,
	facts *entities.TransactionFacts,
) (*entities.VerificationResult, error) {
	ctx, cancel := writeContext(ctx)
	defer cancel()

	verified := entities.VerificationVerified
	verifying := entities.VerificationVerifying
	statusVerified := entities.OrderVerified
	pending := entities.OrderPending
	message := fmt.Sprintf("%s: %s %s", msgVerified, facts.Quantity.String(), method.Asset)

	var updated *entities.Order
	err := e.txManager.Do(ctx, func(ctx context.Context) error {
		if err := e.repository.ClaimTransaction(ctx, method.Network, current.TransactionHash, current.ID); err != nil {
			return fmt.Errorf("claim transaction: %w", err)
		}

		var err error
		updated, err = e.repository.Update(ctx, entities.OrderModify{
			ID:                         &current.ID,
			Status:                     &statusVerified,
			VerificationStatus:         &verified,
			VerificationMessage:        &message,
			ExpectedVerificationStatus: &verifying,
			ExpectedStatus:             &pending,
		})
		if err != nil {
			return fmt.Errorf("mark verified: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, order.ErrTransactionAlreadyUsed) {
			return e.finish(ctx, current, method.Network, fatal(msgAlreadyUsed, outcomeReplay))
		}
		e.log.Error("commit verification",
			logger.NewField("order_id", current.ID),
			logger.NewField("error", err),
		)
		return e.finish(ctx, current, method.Network, revert(msgLookupUnavailable, outcomeUnavailable))
	}

	VerificationOutcomesTotal.WithLabelValues(method.Network.String(), outcomeVerified).Inc()
	e.publishStatusChanged(ctx, updated, current.Status)

	return &entities.VerificationResult{Success: true, Message: message, Order: updated}, nil
}

// finish writes the outcome of an attempt that holds the verifying state.
func (e *Engine) finish(
	ctx context.Context,
	current *entities.Order,
	network entities.Network,
	out outcome,
) (*entities.VerificationResult, error) {
	ctx, cancel := writeContext(ctx)
	defer cancel()

	VerificationOutcomesTotal.WithLabelValues(network.String(), out.label).Inc()

	verifying := entities.VerificationVerifying
	updated, err := e.repository.Update(ctx, entities.OrderModify{
		ID:                         &current.ID,
		Status:                     out.status,
		VerificationStatus:         &out.verification,
		VerificationMessage:        &out.message,
		ExpectedVerificationStatus: &verifying,
	})
	if err != nil {
		return nil, fmt.Errorf("record verification outcome: %w", err)
	}

	if out.status != nil && *out.status != current.Status {
		e.publishStatusChanged(ctx, updated, current.Status)
	}

	return &entities.VerificationResult{Success: false, Message: out.message, Order: updated}, nil
}

// ResetStale returns orders stuck in verifying longer than olderThan to not_verified.
func (e *Engine) ResetStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	reset, err := e.repository.ResetStaleVerifications(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("reset stale verifications: %w", err)
	}
	StaleVerificationsResetTotal.Add(float64(reset))
	return reset, nil
}

func (e *Engine) publishStatusChanged(ctx context.Context, updated *entities.Order, previous entities.OrderStatusType) {
	event := entities.OrderStatusChanged{
		OrderID:        updated.ID,
		Status:         updated.Status,
		PreviousStatus: previous,
		LicenseKey:     updated.LicenseKey,
		CustomerEmail:  updated.CustomerEmail,
		ProductID:      updated.ProductID,
		Amount:         updated.Amount,
		OccurredAt:     time.Now().UTC(),
	}

	if err := e.publisher.PublishStatusChanged(ctx, event); err != nil {
		e.log.Warn("publish status change",
			logger.NewField("order_id", updated.ID),
			logger.NewField("status", updated.Status.String()),
			logger.NewField("error", err),
		)
	}
}

// WithinTolerance reports whether |actual-expected| <= expected*tolerance.
func WithinTolerance(actual, expected, tolerance decimal.Decimal) bool {
	band := expected.Mul(tolerance).Abs()
	return actual.Sub(expected).Abs().LessThanOrEqual(band)
}

func classifyLookupError(err error, method entities.PaymentMethod) outcome {
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		return outcome{
			verification: entities.VerificationFailed,
			message:      fmt.Sprintf("transaction not found on %s", method.Network),
			label:        outcomeNotFound,
		}
	case errors.Is(err, ErrTransactionPending):
		return awaiting(0, method.MinConfirmations)
	case errors.Is(err, ErrTransactionReverted):
		return fatal(fmt.Sprintf("transaction reverted on %s", method.Network), outcomeFailed)
	case errors.Is(err, ErrUnsupportedNetwork):
		return fatal(fmt.Sprintf("unsupported network %s", method.Network), outcomeFailed)
	default:
		return revert(msgLookupUnavailable, outcomeUnavailable)
	}
}

func fatal(message, label string) outcome {
	failed := entities.OrderFailed
	return outcome{
		verification: entities.VerificationFailed,
		status:       &failed,
		message:      message,
		label:        label,
	}
}

func revert(message, label string) outcome {
	return outcome{
		verification: entities.VerificationNotVerified,
		message:      message,
		label:        label,
	}
}

func awaiting(have, want uint64) outcome {
	return revert(fmt.Sprintf("awaiting confirmations (%d/%d)", have, want), outcomeAwaiting)
}

func sameAddress(network entities.Network, got, want string) bool {
	switch network {
	case entities.NetworkEthereum, entities.NetworkBSC, entities.NetworkTron:
		return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
	default:
		return strings.TrimSpace(got) == strings.TrimSpace(want)
	}
}

func successMessage(o *entities.Order) string {
	if o.VerificationMessage != "" {
		return o.VerificationMessage
	}
	return msgVerified
}

// writeContext detaches outcome writes from the attempt deadline so the verifying state is always released.
func writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
}
