package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ryuqq/authhub/internal/httputil"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	policyHttp "github.com/ryuqq/authhub/internal/policy/http"
	revocationHttp "github.com/ryuqq/authhub/internal/revocation/http"
	tokenUseCase "github.com/ryuqq/authhub/internal/token/usecase"
)

// Gateway identity headers. When an upstream gateway has already authenticated
// the caller it forwards the resolved identity in these headers; the bearer
// token is then only consulted as a fallback.
const (
	HeaderUserID         = "X-User-Id"
	HeaderTenantID       = "X-Tenant-Id"
	HeaderOrganizationID = "X-Organization-Id"
	HeaderUserRoles      = "X-User-Roles"
	HeaderPermissions    = "X-Permissions"
)

// AuthenticationMiddleware resolves the caller identity and stores it in the
// request context for the authorization stage.
//
// Resolution order: gateway identity headers first, then the bearer token.
// A request with neither proceeds as anonymous; the default-deny policy
// evaluation decides whether anonymous access is acceptable. A bearer token
// that is present but unverifiable is rejected with 401.
func AuthenticationMiddleware(
	tokens tokenUseCase.TokenUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access := accessFromGatewayHeaders(c); access != nil {
			setAccessContext(c, access)
			c.Next()
			return
		}

		token, ok := revocationHttp.ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			setAccessContext(c, policyDomain.Anonymous())
			c.Next()
			return
		}

		access, err := tokens.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("rejected unverifiable bearer token", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		setAccessContext(c, access)
		c.Next()
	}
}

// accessFromGatewayHeaders builds an identity from gateway headers.
// Returns nil unless X-User-Id is set.
func accessFromGatewayHeaders(c *gin.Context) *policyDomain.AccessContext {
	userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if userID == "" {
		return nil
	}

	return &policyDomain.AccessContext{
		UserID:         userID,
		TenantID:       strings.TrimSpace(c.GetHeader(HeaderTenantID)),
		OrganizationID: strings.TrimSpace(c.GetHeader(HeaderOrganizationID)),
		Roles:          parseHeaderList(c.GetHeader(HeaderUserRoles), "ROLE_"),
		Permissions:    parseHeaderList(c.GetHeader(HeaderPermissions), ""),
	}
}

// parseHeaderList splits a comma-separated header value, trimming whitespace
// and an optional prefix from each entry. Blank entries are dropped.
func parseHeaderList(value, prefix string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var entries []string
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if prefix != "" {
			entry = strings.TrimPrefix(entry, prefix)
		}
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func setAccessContext(c *gin.Context, access *policyDomain.AccessContext) {
	ctx := policyHttp.WithAccessContext(c.Request.Context(), access)
	c.Request = c.Request.WithContext(ctx)
}
