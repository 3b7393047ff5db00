package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/ryuqq/authhub/internal/app"
	"github.com/ryuqq/authhub/internal/config"
	appHttp "github.com/ryuqq/authhub/internal/http"
)

// RunServer starts the HTTP server with graceful shutdown support.
// Loads configuration, initializes the DI container, installs the initial
// policy table, and starts the Gin HTTP server. Blocks until receiving
// SIGINT/SIGTERM or encountering a fatal error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer CloseContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	// Install the policy table before accepting traffic. Without it every
	// protected request is denied.
	policyUC, err := container.PolicyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize policy use case: %w", err)
	}
	if err := policyUC.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load policy table: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Start(ctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case <-groupCtx.Done():
		logger.Error("server error, initiating shutdown")
	}

	shutdownErr := shutdownServers(server, metricsServer, cfg)
	return errors.Join(group.Wait(), shutdownErr)
}

func shutdownServers(
	server *appHttp.Server,
	metricsServer *appHttp.MetricsServer,
	cfg *config.Config,
) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer cancel()

	var shutdownErrors []error

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}
