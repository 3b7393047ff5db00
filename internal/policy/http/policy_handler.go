package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryuqq/authhub/internal/httputil"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	policyUseCase "github.com/ryuqq/authhub/internal/policy/usecase"
)

// PolicyHandler handles HTTP requests for endpoint policy management.
type PolicyHandler struct {
	policyUseCase policyUseCase.PolicyUseCase
	logger        *slog.Logger
}

// NewPolicyHandler creates a new policy handler with required dependencies.
func NewPolicyHandler(
	useCase policyUseCase.PolicyUseCase,
	logger *slog.Logger,
) *PolicyHandler {
	return &PolicyHandler{
		policyUseCase: useCase,
		logger:        logger,
	}
}

// policyResponse is the JSON view of a persisted policy definition.
type policyResponse struct {
	ID                  string   `json:"id"`
	Method              string   `json:"method"`
	Pattern             string   `json:"pattern"`
	RequiredRoles       []string `json:"required_roles"`
	RequiredPermissions []string `json:"required_permissions"`
	Public              bool     `json:"public"`
	Description         string   `json:"description,omitempty"`
	CreatedAt           string   `json:"created_at"`
}

func toPolicyResponse(definition *policyDomain.PolicyDefinition) policyResponse {
	return policyResponse{
		ID:                  definition.ID.String(),
		Method:              definition.Method,
		Pattern:             definition.Pattern,
		RequiredRoles:       definition.RequiredRoles,
		RequiredPermissions: definition.RequiredPermissions,
		Public:              definition.Public,
		Description:         definition.Description,
		CreatedAt:           definition.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateHandler registers a new endpoint policy.
// POST /api/v1/policies - Returns 201 Created. The active table is unchanged
// until the next reload.
func (h *PolicyHandler) CreateHandler(c *gin.Context) {
	var input policyDomain.CreatePolicyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	definition, err := h.policyUseCase.Create(c.Request.Context(), &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, toPolicyResponse(definition))
}

// ListHandler retrieves persisted policy definitions with pagination.
// GET /api/v1/policies?offset=0&limit=50 - Returns 200 OK.
func (h *PolicyHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	definitions, err := h.policyUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	responses := make([]policyResponse, 0, len(definitions))
	for _, definition := range definitions {
		responses = append(responses, toPolicyResponse(definition))
	}

	c.JSON(http.StatusOK, gin.H{"policies": responses})
}

// ReloadHandler rebuilds and atomically installs the active policy table.
// POST /api/v1/policies/reload - Returns 200 OK on success; a failed build
// leaves the previous table active and reports the build error.
func (h *PolicyHandler) ReloadHandler(c *gin.Context) {
	if err := h.policyUseCase.Reload(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
