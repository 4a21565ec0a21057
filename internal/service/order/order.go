package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/entities"
	"storefront/internal/service/catalog"
	"storefront/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500

	resetByAdministrator = "reset by administrator"
	publishTimeout       = 5 * time.Second
)

type Order struct {
	repository Repository
	catalog    ProductCatalog
	methods    PaymentMethods
	verifier   Verifier
	policy     TransitionPolicy
	publisher  EventPublisher
	log        logger.Logger
}

func New(
	repository Repository,
	catalog ProductCatalog,
	methods PaymentMethods,
	verifier Verifier,
	policy TransitionPolicy,
	publisher EventPublisher,
	log logger.Logger,
) *Order {
	return &Order{
		repository: repository,
		catalog:    catalog,
		methods:    methods,
		verifier:   verifier,
		policy:     policy,
		publisher:  publisher,
		log:        log.With(logger.NewField("service", "order")),
	}
}

func (s *Order) CreateOrder(ctx context.Context, orderCreate entities.OrderCreate) (*entities.Order, error) {
	if orderCreate.ProductID == nil ||
		orderCreate.CustomerName == nil ||
		orderCreate.CustomerEmail == nil ||
		orderCreate.PaymentMethod == nil {
		return nil, ErrMissingRequiredFields
	}

	if !isValidName(*orderCreate.CustomerName) {
		return nil, ErrInvalidName
	}
	if !isValidEmail(*orderCreate.CustomerEmail) {
		return nil, ErrInvalidEmail
	}

	method, ok := s.methods.Get(*orderCreate.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, *orderCreate.PaymentMethod)
	}

	product, err := s.catalog.GetProduct(ctx, *orderCreate.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, *orderCreate.ProductID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !product.Available {
		return nil, ErrProductUnavailable
	}

	if orderCreate.Amount != nil && !orderCreate.Amount.Equal(product.Price) {
		return nil, fmt.Errorf("%w: price is %s", ErrAmountMismatch, product.Price.StringFixed(2))
	}

	var txHash string
	if orderCreate.TransactionHash != nil && strings.TrimSpace(*orderCreate.TransactionHash) != "" {
		normalized, ok := NormalizeTransactionHash(method.Network, *orderCreate.TransactionHash)
		if !ok {
			return nil, ErrInvalidTransactionHash
		}
		txHash = normalized
	}

	licenseKey, err := newLicenseKey()
	if err != nil {
		return nil, fmt.Errorf("generate license key: %w", err)
	}

	now := time.Now().UTC()
	order := entities.Order{
		ID:                 newOrderID(),
		ProductID:          product.ID,
		CustomerName:       strings.TrimSpace(*orderCreate.CustomerName),
		CustomerEmail:      strings.TrimSpace(*orderCreate.CustomerEmail),
		Amount:             product.Price,
		PaymentMethod:      method.Code,
		TransactionHash:    txHash,
		Status:             entities.OrderPending,
		VerificationStatus: entities.VerificationNotVerified,
		LicenseKey:         licenseKey,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repository.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return &order, nil
}

func (s *Order) GetOrder(ctx context.Context, id string) (*entities.Order, error) {
	order, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

func (s *Order) ListOrders(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	switch {
	case filter.Limit == 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	orders, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// SubmitTransactionHash attaches the payment transaction to an order. The hash is set once.
func (s *Order) SubmitTransactionHash(ctx context.Context, id, hash string) (*entities.Order, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, ErrMissingRequiredFields
	}

	current, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	method, ok := s.methods.Get(current.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, current.PaymentMethod)
	}

	normalized, ok := NormalizeTransactionHash(method.Network, hash)
	if !ok {
		return nil, ErrInvalidTransactionHash
	}

	if current.TransactionHash == normalized {
		return current, nil
	}
	if current.TransactionHash != "" {
		return nil, ErrTransactionHashAlreadySet
	}

	updated, err := s.repository.Update(ctx, entities.OrderModify{
		ID:                       &id,
		TransactionHash:          &normalized,
		RequireNoTransactionHash: true,
	})
	if err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			return nil, ErrTransactionHashAlreadySet
		}
		return nil, fmt.Errorf("set transaction hash: %w", err)
	}

	return updated, nil
}

func (s *Order) RequestVerification(ctx context.Context, id string) (*entities.VerificationResult, error) {
	result, err := s.verifier.Verify(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("verify order %s: %w", id, err)
	}
	return result, nil
}

// SetStatus is the administrator override of the order status.
func (s *Order) SetStatus(ctx context.Context, id string, status entities.OrderStatusType) (*entities.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	reopen := status == entities.OrderPending && current.VerificationStatus == entities.VerificationFailed
	if current.Status == status && !reopen {
		return current, nil
	}
	if current.VerificationStatus == entities.VerificationVerifying {
		return nil, ErrVerificationInProgress
	}
	if current.Status != status && !s.policy.Allowed(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	orderModify := entities.OrderModify{
		ID:                         &id,
		Status:                     &status,
		ExpectedStatus:             &current.Status,
		ExpectedVerificationStatus: &current.VerificationStatus,
	}

	// a failed verification is reopened when the order is set to pending, even if it already is
	if reopen {
		notVerified := entities.VerificationNotVerified
		message := resetByAdministrator
		orderModify.VerificationStatus = &notVerified
		orderModify.VerificationMessage = &message
	}

	updated, err := s.repository.Update(ctx, orderModify)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if updated.Status != current.Status {
		s.publishStatusChanged(ctx, updated, current.Status)
	}
	return updated, nil
}

func (s *Order) GetStats(ctx context.Context) (*entities.OrderStats, error) {
	stats, err := s.repository.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

func (s *Order) publishStatusChanged(ctx context.Context, order *entities.Order, previous entities.OrderStatusType) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := entities.OrderStatusChanged{
		OrderID:        order.ID,
		Status:         order.Status,
		PreviousStatus: previous,
		LicenseKey:     order.LicenseKey,
		CustomerEmail:  order.CustomerEmail,
		ProductID:      order.ProductID,
		Amount:         order.Amount,
		OccurredAt:     time.Now().UTC(),
	}

	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.log.Warn("publish status change",
			logger.NewField("order_id", order.ID),
			logger.NewField("status", order.Status.String()),
			logger.NewField("error", err),
		)
	}
}
