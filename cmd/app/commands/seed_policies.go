package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
	policyUseCase "github.com/ryuqq/authhub/internal/policy/usecase"
)

// RunSeedPolicies loads a JSON array of policy definitions from a file,
// persists each one, and reloads the active table. Used to bootstrap a fresh
// deployment with its endpoint policy table.
func RunSeedPolicies(
	ctx context.Context,
	useCase policyUseCase.PolicyUseCase,
	logger *slog.Logger,
	out io.Writer,
	path string,
	format string,
) error {
	if path == "" {
		return fmt.Errorf("policy source path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read policy source: %w", err)
	}

	var inputs []policyDomain.CreatePolicyInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("failed to parse policy source: %w", err)
	}

	logger.Info("seeding policies", slog.String("path", path), slog.Int("count", len(inputs)))

	created := 0
	for i := range inputs {
		if _, err := useCase.Create(ctx, &inputs[i]); err != nil {
			return fmt.Errorf("failed to create policy %q %q: %w", inputs[i].Method, inputs[i].Pattern, err)
		}
		created++
	}

	if err := useCase.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload policy table: %w", err)
	}

	if format == "json" {
		outputSeedJSON(out, created)
	} else {
		fmt.Fprintf(out, "Successfully seeded %d policy(ies)\n", created)
	}

	logger.Info("policy seeding completed", slog.Int("created", created))
	return nil
}

func outputSeedJSON(out io.Writer, created int) {
	result := map[string]any{
		"created": created,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
