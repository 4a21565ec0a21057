package verification_reaper

import (
	"context"
	"time"

	"storefront/pkg/logger"
)

type Service interface {
	ResetStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// VerificationReaper returns orders abandoned in verifying back to not_verified,
// so a crashed verification does not lock the order forever.
type VerificationReaper struct {
	log        logger.Logger
	service    Service
	interval   time.Duration
	staleAfter time.Duration
}

func NewVerificationReaper(log logger.Logger, service Service, interval, staleAfter time.Duration) *VerificationReaper {
	return &VerificationReaper{
		log:        log,
		service:    service,
		interval:   interval,
		staleAfter: staleAfter,
	}
}

func (v *VerificationReaper) TTL() time.Duration {
	return v.interval
}

func (v *VerificationReaper) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, v.interval)
	defer cancel()

	reset, err := v.service.ResetStale(ctxWithTimeout, v.staleAfter)

	if reset > 0 {
		v.log.With(
			logger.NewField("reset_orders", reset),
		).Info("verification reaper")
	}

	return err
}

func (v *VerificationReaper) Info() string {
	return "verification reaper"
}
