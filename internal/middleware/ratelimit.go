package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

type fixedWindow struct {
	client *redis.Client
	cfg    RateLimitConfig
}

// hit counts one request for id and returns the count so far in the
// current window plus the time until the window resets.
func (f fixedWindow) hit(ctx context.Context, id string) (int64, time.Duration, error) {
	key := f.cfg.KeyPrefix + ":" + id

	pipe := f.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	resetIn := ttl.Val()
	if resetIn <= 0 {
		// First hit of a new window.
		if err := f.client.PExpire(ctx, key, f.cfg.Window).Err(); err != nil {
			return 0, 0, err
		}
		resetIn = f.cfg.Window
	}

	return incr.Val(), resetIn, nil
}

type peerAddrKey struct{}

// PeerAddress records the connection's remote address before RealIP
// rewrites it from forwarding headers. Mount it ahead of RealIP.
func PeerAddress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientAddress keys on the TCP peer so X-Forwarded-For cannot rotate
// the limiter key.
func clientAddress(r *http.Request) string {
	addr := r.RemoteAddr
	if peer, ok := r.Context().Value(peerAddrKey{}).(string); ok && peer != "" {
		addr = peer
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// RateLimitMiddleware allows RequestsPerWindow requests per client address
// in each window and answers 429 beyond that. Requests pass through when
// Redis cannot be reached.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := fixedWindow{client: redisClient, cfg: config}
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddress(r)

			count, resetIn, err := limiter.hit(r.Context(), addr)
			if err != nil {
				logger.Error("Rate limiter unavailable, letting request through",
					zap.String("client", addr),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(config.RequestsPerWindow) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Too many auth attempts",
					zap.String("client", addr),
					zap.Int64("count", count),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(resetIn.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "Too many attempts, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
