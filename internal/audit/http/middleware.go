// Package http provides the audit trail middleware.
package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
	auditUseCase "github.com/ryuqq/authhub/internal/audit/usecase"
	policyHttp "github.com/ryuqq/authhub/internal/policy/http"
	ratelimitHttp "github.com/ryuqq/authhub/internal/ratelimit/http"
)

// auditWriteTimeout bounds the audit write so a slow database cannot hold the
// request goroutine indefinitely.
const auditWriteTimeout = 2 * time.Second

// AuditMiddleware records one audit entry per request.
//
// The entry is emitted after the rest of the chain finishes, whatever the
// outcome: rejected, denied, and panicking requests are recorded with the
// status the response carried. A failed audit write never fails the request;
// it is logged and dropped.
func AuditMiddleware(audit auditUseCase.AuditUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			record := &auditDomain.Record{
				RequestID:  requestid.Get(c),
				ClientIP:   ratelimitHttp.ClientIP(c),
				Method:     c.Request.Method,
				Path:       c.Request.URL.Path,
				StatusCode: c.Writer.Status(),
				Duration:   time.Since(start),
			}

			// The authentication stage runs after this middleware and stores
			// the resolved identity on the request context; by emission time
			// it is visible here.
			if access, ok := policyHttp.GetAccessContext(c.Request.Context()); ok && !access.IsAnonymous() {
				record.Subject = access.UserID
				record.TenantID = access.TenantID
			}

			ctx, cancel := context.WithTimeout(
				context.WithoutCancel(c.Request.Context()), auditWriteTimeout)
			defer cancel()

			if err := audit.Record(ctx, record); err != nil {
				logger.Warn("failed to write audit record",
					slog.String("request_id", record.RequestID),
					slog.String("path", record.Path),
					slog.Any("error", err))
			}
		}()

		c.Next()
	}
}
