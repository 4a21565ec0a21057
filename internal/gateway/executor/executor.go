// Package executor runs outbound calls with retries and records gateway metrics.
package executor

import (
	"context"
	"errors"
	"net"
	"time"

	retrierconfig "storefront/pkg/retrier"
	"storefront/pkg/retrier/backoff_adapter"
)

const (
	resultOK        = "ok"
	resultTransient = "transient"
	resultPermanent = "permanent"
	resultCanceled  = "canceled"
)

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type Executor struct {
	service string
	retrier retrier
}

// New builds an executor that retries errors accepted by shouldRetry. A nil shouldRetry
// falls back to IsTransient.
func New(service string, config retrierconfig.Config) *Executor {
	if config.ShouldRetry == nil {
		config.ShouldRetry = IsTransient
	}

	return &Executor{
		service: service,
		retrier: backoff_adapter.New(config),
	}
}

func (e *Executor) Do(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := e.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	result := resultLabel(err)
	GatewayRequestDuration.WithLabelValues(e.service, method, result).Observe(time.Since(start).Seconds())
	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(e.service, method, result).Inc()
	}

	return err
}

// IsTransient reports whether a failed call may succeed when repeated.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, context.Canceled):
		return resultCanceled
	case IsTransient(err):
		return resultTransient
	default:
		return resultPermanent
	}
}
