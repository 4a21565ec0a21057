// Package events carries order status changes over Kafka.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

var ErrBadMessage = errors.New("bad order status message")

// StatusChangedMessage is the JSON payload on the order status topic.
type StatusChangedMessage struct {
	OrderID        string          `json:"order_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status"`
	LicenseKey     string          `json:"license_key"`
	CustomerEmail  string          `json:"customer_email"`
	ProductID      string          `json:"product_id"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func Encode(event entities.OrderStatusChanged) ([]byte, error) {
	return json.Marshal(StatusChangedMessage{
		OrderID:        event.OrderID,
		Status:         event.Status.String(),
		PreviousStatus: event.PreviousStatus.String(),
		LicenseKey:     event.LicenseKey,
		CustomerEmail:  event.CustomerEmail,
		ProductID:      event.ProductID,
		Amount:         event.Amount,
		OccurredAt:     event.OccurredAt,
	})
}

func Decode(raw []byte) (entities.OrderStatusChanged, error) {
	var msg StatusChangedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return entities.OrderStatusChanged{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	if msg.OrderID == "" {
		return entities.OrderStatusChanged{}, fmt.Errorf("%w: missing order_id", ErrBadMessage)
	}

	status := entities.OrderStatusType(msg.Status)
	if !status.IsValid() {
		return entities.OrderStatusChanged{}, fmt.Errorf("%w: unknown status %q", ErrBadMessage, msg.Status)
	}

	return entities.OrderStatusChanged{
		OrderID:        msg.OrderID,
		Status:         status,
		PreviousStatus: entities.OrderStatusType(msg.PreviousStatus),
		LicenseKey:     msg.LicenseKey,
		CustomerEmail:  msg.CustomerEmail,
		ProductID:      msg.ProductID,
		Amount:         msg.Amount,
		OccurredAt:     msg.OccurredAt,
	}, nil
}
