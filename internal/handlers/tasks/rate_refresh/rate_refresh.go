package rate_refresh

import (
	"context"
	"time"

	"storefront/pkg/logger"
)

type Oracle interface {
	Refresh(ctx context.Context, rateIDs []string) error
}

type RateSources interface {
	RateIDs() []string
}

// RateRefresh keeps the quote cache warm for every configured price source.
// A failed refresh is only logged: verification falls back to fetching on demand.
type RateRefresh struct {
	log      logger.Logger
	oracle   Oracle
	sources  RateSources
	interval time.Duration
}

func NewRateRefresh(log logger.Logger, oracle Oracle, sources RateSources, interval time.Duration) *RateRefresh {
	return &RateRefresh{
		log:      log,
		oracle:   oracle,
		sources:  sources,
		interval: interval,
	}
}

func (r *RateRefresh) TTL() time.Duration {
	return r.interval
}

func (r *RateRefresh) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	rateIDs := r.sources.RateIDs()
	if err := r.oracle.Refresh(ctxWithTimeout, rateIDs); err != nil {
		r.log.With(
			logger.NewField("rate_ids", rateIDs),
			logger.NewField("error", err),
		).Warn("rate refresh failed")
	}
	return nil
}

func (r *RateRefresh) Info() string {
	return "rate refresh"
}
