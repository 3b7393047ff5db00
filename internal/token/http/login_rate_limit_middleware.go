package http

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	"github.com/ryuqq/authhub/internal/httputil"
	ratelimitHttp "github.com/ryuqq/authhub/internal/ratelimit/http"
)

// staleLimiterAge is how long an idle per-client bucket survives before the
// sweep removes it.
const staleLimiterAge = 10 * time.Minute

// LoginRateLimiter throttles login attempts with a per-client-IP token bucket.
// Unlike the shared fixed-window limiter, the buckets are process-local: login
// abuse protection does not need cross-instance precision, and a local bucket
// keeps the hot path off the network.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	logger   *slog.Logger
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginRateLimiter creates a LoginRateLimiter allowing requestsPerSec
// sustained attempts with the given burst per client IP.
func NewLoginRateLimiter(requestsPerSec float64, burst int, logger *slog.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(requestsPerSec),
		burst:    burst,
		logger:   logger,
	}
}

// Middleware rejects login attempts above the per-IP rate with 429.
func (l *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := ratelimitHttp.ClientIP(c)

		if !l.allow(clientIP) {
			l.logger.Warn("login attempt rate limited", slog.String("client_ip", clientIP))
			httputil.HandleErrorGin(c, apperrors.ErrTooManyRequests, l.logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow consumes one token from the client's bucket, creating it on first use.
func (l *LoginRateLimiter) allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	client, ok := l.limiters[clientIP]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[clientIP] = client
		l.sweepLocked(now)
	}
	client.lastSeen = now

	return client.limiter.Allow()
}

// sweepLocked drops buckets idle longer than staleLimiterAge. Runs under the
// mutex whenever a new client shows up, which bounds the map to active clients.
func (l *LoginRateLimiter) sweepLocked(now time.Time) {
	for ip, client := range l.limiters {
		if now.Sub(client.lastSeen) > staleLimiterAge {
			delete(l.limiters, ip)
		}
	}
}
