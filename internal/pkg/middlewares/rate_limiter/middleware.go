package rate_limiter

import (
	"net/http"
	"strconv"

	"storefront/internal/pkg/middlewares/metrics"
	"storefront/pkg/logger"
)

const tooManyRequestsBody = `{"detail":"rate limit exceeded, try again later"}`

// Middleware rejects requests with 429 while the limiter is empty. qps is advertised in
// X-RateLimit-Limit.
func Middleware(log handlerLogger, qps int, limiter Limiter) func(http.Handler) http.Handler {
	limit := strconv.Itoa(qps)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			RateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()

			log.Warn("rate limit exceeded",
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte(tooManyRequestsBody)); err != nil {
				log.Error("write rate limit response", logger.NewField("error", err))
			}
		})
	}
}
