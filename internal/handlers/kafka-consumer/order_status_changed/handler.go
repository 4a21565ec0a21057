package order_status_changed

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"storefront/internal/gateway/events"
	"storefront/internal/pkg/factory/order_handle"
	"storefront/pkg/logger"
)

type Handler struct {
	factory                  HandlerFactory
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, factory HandlerFactory, timeout time.Duration) *Handler {
	return &Handler{
		factory:                  factory,
		log:                      log.With(logger.NewField("handler", "order.status.changed")),
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("claim messages closed, exiting")
				return nil
			}

			if stop := h.messageProcessing(sess, message); stop {
				return nil
			}

		case <-sess.Context().Done():
			h.log.Info("session done, exiting")
			return nil
		}
	}
}

// messageProcessing handles one message. It returns true when the claim must stop without
// marking the message, so it is redelivered after the rebalance.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	event, err := events.Decode(message.Value)
	if err != nil {
		h.log.Error("bad message",
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		)
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("order", event.OrderID),
		logger.NewField("status", event.Status.String()),
		logger.NewField("offset", message.Offset),
	)

	fn, err := h.factory.GetHandler(event.Status)
	if errors.Is(err, order_handle.ErrNoHandler) {
		sess.MarkMessage(message, "")
		return false
	}
	if err != nil {
		msgLog.Error("resolve handler", logger.NewField("error", err))
		sess.MarkMessage(message, "")
		return false
	}

	err = fn(ctx, event)
	switch {
	case err == nil:
		msgLog.Info("processed")
	case sess.Context().Err() != nil:
		msgLog.Warn("session closed mid-message, it will be redelivered", logger.NewField("error", err))
		return true
	default:
		// the webhook already retried; a poison notification must not block the partition
		msgLog.Error("processing failed, skipping", logger.NewField("error", err))
	}

	sess.MarkMessage(message, "")
	return false
}
