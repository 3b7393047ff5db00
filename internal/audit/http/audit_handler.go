package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
	auditUseCase "github.com/ryuqq/authhub/internal/audit/usecase"
	"github.com/ryuqq/authhub/internal/httputil"
)

// AuditHandler handles HTTP requests for reading the audit trail.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(useCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// auditResponse is the JSON view of one audit record.
type auditResponse struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	ClientIP   string `json:"client_ip"`
	Subject    string `json:"subject"`
	TenantID   string `json:"tenant_id,omitempty"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

func toAuditResponse(record *auditDomain.Record) auditResponse {
	return auditResponse{
		ID:         record.ID.String(),
		RequestID:  record.RequestID,
		ClientIP:   record.ClientIP,
		Subject:    record.Subject,
		TenantID:   record.TenantID,
		Method:     record.Method,
		Path:       record.Path,
		StatusCode: record.StatusCode,
		DurationMs: record.Duration.Milliseconds(),
		CreatedAt:  record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListHandler retrieves audit records with pagination, newest first.
// GET /api/v1/audit-logs?offset=0&limit=50 - Returns 200 OK.
func (h *AuditHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	records, err := h.auditUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	responses := make([]auditResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toAuditResponse(record))
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": responses})
}
