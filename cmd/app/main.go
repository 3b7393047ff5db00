// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ryuqq/authhub/cmd/app/commands"
	"github.com/ryuqq/authhub/internal/app"
	"github.com/ryuqq/authhub/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "authhub",
		Usage:   "Access control gatekeeper for multi-tenant APIs",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "seed-policies",
				Usage: "Load endpoint policies from a JSON file into the policy source",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"F"},
						Value:   "",
						Usage:   "Path to the JSON policy file (defaults to POLICY_SOURCE_PATH)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer commands.CloseContainer(container, logger)

					policyUC, err := container.PolicyUseCase()
					if err != nil {
						return err
					}

					path := cmd.String("file")
					if path == "" {
						path = cfg.PolicySourcePath
					}
					return commands.RunSeedPolicies(
						ctx, policyUC, logger, os.Stdout, path, cmd.String("format"))
				},
			},
			{
				Name:  "clean-audit-logs",
				Usage: "Delete audit logs older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete audit logs older than this many days",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer commands.CloseContainer(container, logger)

					auditUC, err := container.AuditUseCase()
					if err != nil {
						return err
					}
					return commands.RunCleanAuditLogs(
						ctx, auditUC, logger, os.Stdout, cmd.Int("days"), cmd.String("format"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
