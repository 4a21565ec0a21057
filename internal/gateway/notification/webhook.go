// Package notification delivers license notifications to a customer-facing webhook.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
	"storefront/internal/gateway/executor"
	retrierconfig "storefront/pkg/retrier"
)

const (
	serviceName = "notification-webhook"

	initialInterval = 500 * time.Millisecond
	maxInterval     = 5 * time.Second
	maxRetries      = 3
	randomization   = 0.5
	multiplier      = 2.0
)

type Config struct {
	URL     string
	Timeout time.Duration
}

type Webhook struct {
	client   executor.HTTPDoer
	config   Config
	executor *executor.Executor
}

func New(client executor.HTTPDoer, config Config) *Webhook {
	return &Webhook{
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

type payload struct {
	Event         string          `json:"event"`
	OrderID       string          `json:"order_id"`
	ProductID     string          `json:"product_id"`
	CustomerEmail string          `json:"customer_email"`
	LicenseKey    string          `json:"license_key,omitempty"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// LicenseIssued tells the webhook that the customer may now receive the license key.
func (w *Webhook) LicenseIssued(ctx context.Context, event entities.OrderStatusChanged) error {
	return w.send(ctx, "LicenseIssued", payload{
		Event:         "license_issued",
		OrderID:       event.OrderID,
		ProductID:     event.ProductID,
		CustomerEmail: event.CustomerEmail,
		LicenseKey:    event.LicenseKey,
		Status:        event.Status.String(),
		Amount:        event.Amount,
		OccurredAt:    event.OccurredAt,
	})
}

// PaymentFailed tells the webhook the order was rejected. The license key is withheld.
func (w *Webhook) PaymentFailed(ctx context.Context, event entities.OrderStatusChanged) error {
	return w.send(ctx, "PaymentFailed", payload{
		Event:         "payment_failed",
		OrderID:       event.OrderID,
		ProductID:     event.ProductID,
		CustomerEmail: event.CustomerEmail,
		Status:        event.Status.String(),
		Amount:        event.Amount,
		OccurredAt:    event.OccurredAt,
	})
}

func (w *Webhook) send(ctx context.Context, method string, body payload) error {
	ctx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	err := w.executor.Do(ctx, method, func(ctx context.Context) error {
		return executor.PostJSON(ctx, w.client, w.config.URL, nil, body)
	})
	if err != nil {
		return fmt.Errorf("notify %s for order %s: %w", body.Event, body.OrderID, err)
	}
	return nil
}
