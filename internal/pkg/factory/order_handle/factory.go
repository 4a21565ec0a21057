package order_handle

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/entities"
)

// ErrNoHandler means nothing needs to happen for the status.
var ErrNoHandler = errors.New("no handler for status")

type ExecuteFn func(ctx context.Context, event entities.OrderStatusChanged) error

type StatusHandlerFactory struct {
	notifier Notifier
}

func NewStatusHandlerFactory(notifier Notifier) *StatusHandlerFactory {
	return &StatusHandlerFactory{notifier: notifier}
}

func (f *StatusHandlerFactory) GetHandler(status entities.OrderStatusType) (ExecuteFn, error) {
	switch status {
	case entities.OrderCompleted:
		return f.completedHandler, nil
	case entities.OrderFailed:
		return f.failedHandler, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, status)
	}
}

func (f *StatusHandlerFactory) completedHandler(ctx context.Context, event entities.OrderStatusChanged) error {
	if event.LicenseKey == "" {
		return fmt.Errorf("completed order %s carries no license key", event.OrderID)
	}
	if err := f.notifier.LicenseIssued(ctx, event); err != nil {
		return fmt.Errorf("license notification for order %s: %w", event.OrderID, err)
	}
	return nil
}

func (f *StatusHandlerFactory) failedHandler(ctx context.Context, event entities.OrderStatusChanged) error {
	if err := f.notifier.PaymentFailed(ctx, event); err != nil {
		return fmt.Errorf("failure notification for order %s: %w", event.OrderID, err)
	}
	return nil
}
