// Package http provides the revocation check middleware.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	"github.com/ryuqq/authhub/internal/httputil"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	revocationUseCase "github.com/ryuqq/authhub/internal/revocation/usecase"
)

// JTIExtractor pulls the token identifier out of a raw bearer token without
// requiring a full authentication pass. Signature validation is still the
// authentication middleware's job.
type JTIExtractor interface {
	ExtractJTI(token string) (string, error)
}

// Options configures the revocation middleware.
type Options struct {
	// FailOpenReads lets read-only requests (GET, HEAD, OPTIONS) proceed when
	// the revocation store is unreachable. Mutating requests always fail
	// closed. Off by default.
	FailOpenReads bool
}

// RevocationMiddleware rejects requests bearing a revoked token.
//
// Requests without an Authorization header, with a malformed Bearer prefix,
// or with a token the extractor cannot parse pass through: "no token" is not
// an error at this stage, and unparseable tokens are left for the
// authentication middleware to reject. A revoked token is rejected with 401
// and the exact body {"error": "Token has been revoked"}.
func RevocationMiddleware(
	revocation revocationUseCase.RevocationUseCase,
	extractor JTIExtractor,
	opts Options,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		jti, err := extractor.ExtractJTI(token)
		if err != nil || jti == "" {
			c.Next()
			return
		}

		revoked, err := revocation.IsRevoked(c.Request.Context(), jti)
		if err != nil {
			method := policyDomain.ParseMethodOrDefault(c.Request.Method)
			if opts.FailOpenReads && method.IsReadOnly() {
				logger.Warn("revocation store unavailable, failing open for read-only request",
					slog.String("method", method.String()),
					slog.Any("error", err))
				c.Next()
				return
			}

			logger.Warn("revocation store unavailable, failing closed",
				slog.String("method", method.String()),
				slog.Any("error", err))
			httputil.HandleErrorGin(c, apperrors.ErrStoreUnavailable, logger)
			c.Abort()
			return
		}

		if revoked {
			logger.Debug("rejected revoked token", slog.String("jti", jti))
			httputil.HandleErrorGin(c, apperrors.ErrTokenRevoked, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractBearerToken parses an Authorization header value.
// Returns ("", false) when the header is absent or the prefix is not a
// case-insensitive "Bearer ".
func ExtractBearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) <= len(bearerPrefix) ||
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}
