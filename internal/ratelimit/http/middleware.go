// Package http provides the fixed-window rate limiting middleware.
package http

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	"github.com/ryuqq/authhub/internal/httputil"
	rateLimitDomain "github.com/ryuqq/authhub/internal/ratelimit/domain"
	rateLimitUseCase "github.com/ryuqq/authhub/internal/ratelimit/usecase"
)

// Options configures the rate limiting middleware.
type Options struct {
	// Enabled turns the middleware into a pass-through when false.
	Enabled bool
	// FailClosed rejects requests with 503 when the counter store is
	// unreachable. The default (false) fails open: rate limiting is a
	// protective control, not a safety-critical one.
	FailClosed bool
	// LimitType selects the quota rule; defaults to IP-based.
	LimitType rateLimitDomain.LimitType
}

// RateLimitMiddleware enforces a fixed-window quota per (client IP, endpoint).
//
// The client IP is taken from the first entry of X-Forwarded-For when present,
// falling back to the connection's remote address. Every response on a
// rate-limited path carries X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset (Unix seconds), the 429 rejection included.
func RateLimitMiddleware(
	useCase rateLimitUseCase.RateLimitUseCase,
	opts Options,
	logger *slog.Logger,
) gin.HandlerFunc {
	limitType := opts.LimitType
	if limitType == "" {
		limitType = rateLimitDomain.DefaultLimitType
	}

	return func(c *gin.Context) {
		if !opts.Enabled {
			c.Next()
			return
		}

		clientIP := ClientIP(c)
		endpoint := c.Request.URL.Path

		result, err := useCase.TryAcquire(c.Request.Context(), clientIP, endpoint, limitType)
		if err != nil {
			if opts.FailClosed {
				logger.Warn("rate limit store unavailable, failing closed",
					slog.String("client_ip", clientIP),
					slog.Any("error", err))
				httputil.HandleErrorGin(c, apperrors.ErrStoreUnavailable, logger)
				c.Abort()
				return
			}

			logger.Warn("rate limit store unavailable, failing open",
				slog.String("client_ip", clientIP),
				slog.Any("error", err))
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			httputil.HandleErrorGin(c, rateLimitDomain.ErrRateLimitExceeded, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders attaches the quota feedback headers to the response.
func setRateLimitHeaders(c *gin.Context, result *rateLimitDomain.Result) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// ClientIP resolves the caller address, honoring the first X-Forwarded-For
// entry set by an upstream proxy before falling back to the socket address.
func ClientIP(c *gin.Context) string {
	forwarded := c.GetHeader("X-Forwarded-For")
	if forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}
