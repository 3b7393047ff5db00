// Package http provides HTTP handlers for the token lifecycle and the
// authentication middleware resolving caller identity.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	"github.com/ryuqq/authhub/internal/httputil"
	identityDomain "github.com/ryuqq/authhub/internal/identity/domain"
	identityUseCase "github.com/ryuqq/authhub/internal/identity/usecase"
	policyHttp "github.com/ryuqq/authhub/internal/policy/http"
	revocationHttp "github.com/ryuqq/authhub/internal/revocation/http"
	tokenDomain "github.com/ryuqq/authhub/internal/token/domain"
	tokenUseCase "github.com/ryuqq/authhub/internal/token/usecase"
)

// TokenHandler handles HTTP requests for login, refresh, logout, and registration.
type TokenHandler struct {
	tokenUseCase    tokenUseCase.TokenUseCase
	identityUseCase identityUseCase.IdentityUseCase
	logger          *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokens tokenUseCase.TokenUseCase,
	identity identityUseCase.IdentityUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase:    tokens,
		identityUseCase: identity,
		logger:          logger,
	}
}

// userResponse is the JSON view of a directory user. The password hash is
// never serialized.
type userResponse struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	TenantID       string   `json:"tenant_id"`
	OrganizationID string   `json:"organization_id,omitempty"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions"`
	IsActive       bool     `json:"is_active"`
	CreatedAt      string   `json:"created_at"`
}

func toUserResponse(user *identityDomain.User) userResponse {
	return userResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		TenantID:       user.TenantID,
		OrganizationID: user.OrganizationID,
		Roles:          user.Roles,
		Permissions:    user.Permissions,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// LoginHandler verifies credentials and issues a token pair.
// POST /api/v1/auth/login - Returns 200 OK with the pair, 401 on bad credentials.
func (h *TokenHandler) LoginHandler(c *gin.Context) {
	var input tokenDomain.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	pair, err := h.tokenUseCase.Login(c.Request.Context(), &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// RefreshHandler rotates a refresh token into a new pair.
// POST /api/v1/auth/refresh - Returns 200 OK with the new pair. A replayed,
// expired, or otherwise invalid refresh token returns 401.
func (h *TokenHandler) RefreshHandler(c *gin.Context) {
	var input tokenDomain.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	pair, err := h.tokenUseCase.Refresh(c.Request.Context(), &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// LogoutHandler revokes the bearer token on the request.
// POST /api/v1/auth/logout - Always returns 200 OK for verifiable and
// unverifiable tokens alike, revealing nothing about token validity.
func (h *TokenHandler) LogoutHandler(c *gin.Context) {
	token, _ := revocationHttp.ExtractBearerToken(c.GetHeader("Authorization"))

	if err := h.tokenUseCase.Logout(c.Request.Context(), token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// MeHandler returns the caller identity resolved by the authentication stage.
// GET /api/v1/me - Returns 200 OK with the access context.
func (h *TokenHandler) MeHandler(c *gin.Context) {
	access, ok := policyHttp.GetAccessContext(c.Request.Context())
	if !ok || access.IsAnonymous() {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         access.UserID,
		"tenant_id":       access.TenantID,
		"organization_id": access.OrganizationID,
		"roles":           access.Roles,
		"permissions":     access.Permissions,
	})
}

// RegisterHandler creates a new directory user.
// POST /api/v1/auth/register - Returns 201 Created, 409 when the username is taken.
func (h *TokenHandler) RegisterHandler(c *gin.Context) {
	var input identityDomain.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := h.identityUseCase.Register(c.Request.Context(), &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}
