package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	"github.com/ryuqq/authhub/internal/httputil"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	policyUseCase "github.com/ryuqq/authhub/internal/policy/usecase"
)

// AuthorizationMiddleware enforces endpoint policies on incoming requests.
//
// MUST run after the authentication middleware so the caller identity is in
// the request context. The middleware resolves the policy for the request's
// (method, path) pair and evaluates the caller's roles and permissions against
// it. Requests with no matching policy are denied.
//
// Error handling:
//   - No matching policy → 403 Forbidden (default deny)
//   - Caller fails the policy → 403 Forbidden (problem-details body)
//   - Resolution error → 500 Internal Server Error
func AuthorizationMiddleware(
	authorization policyUseCase.AuthorizationUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := GetAccessContext(c.Request.Context())
		if !ok {
			access = policyDomain.Anonymous()
		}

		method := policyDomain.ParseMethodOrDefault(c.Request.Method)
		path := c.Request.URL.Path

		decision, policy, err := authorization.Authorize(c.Request.Context(), method, path, access)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if decision != policyDomain.Allow {
			pattern := "(unmatched)"
			if policy != nil {
				pattern = policy.Pattern.String()
			}
			logger.Debug("authorization denied",
				slog.String("user_id", access.UserID),
				slog.String("method", method.String()),
				slog.String("path", path),
				slog.String("pattern", pattern))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
