package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	auditUseCase "github.com/ryuqq/authhub/internal/audit/usecase"
)

// RunCleanAuditLogs deletes audit records older than the specified number of
// days. Supports text and JSON output formats.
func RunCleanAuditLogs(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit logs", slog.Int("days", days))

	retention := time.Duration(days) * 24 * time.Hour
	count, err := useCase.Purge(ctx, retention)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}

	if format == "json" {
		outputCleanJSON(out, count, days)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d audit log(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed", slog.Int64("count", count), slog.Int("days", days))
	return nil
}

func outputCleanJSON(out io.Writer, count int64, days int) {
	result := map[string]any{
		"count": count,
		"days":  days,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
