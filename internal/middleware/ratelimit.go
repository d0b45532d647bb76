package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"bugfinder/internal/metrics"
	"bugfinder/internal/models"
	"bugfinder/internal/ratelimit"
	"bugfinder/internal/utils"
)

const rateLimitedDetail = "Too many requests. Please slow down."

// RateLimit rejects clients that exceed the limiter's budget with 429.
// A nil limiter disables the check. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request",
					zap.String("client", key),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metrics.IncRateLimited()
				logger.Info("rate limit exceeded", zap.String("client", key))
				utils.JSON(w, http.StatusTooManyRequests, models.ErrorResponse{
					Code:   models.ErrCodeRateLimited,
					Detail: rateLimitedDetail,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the caller's address without the port. That is the socket peer
// unless the server was started with TRUST_PROXY, in which case RealIP has
// already replaced it with the forwarded address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
