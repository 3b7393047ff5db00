// Package app provides the dependency injection container assembling the
// gatekeeper components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	auditHttp "github.com/ryuqq/authhub/internal/audit/http"
	auditUseCase "github.com/ryuqq/authhub/internal/audit/usecase"
	"github.com/ryuqq/authhub/internal/config"
	"github.com/ryuqq/authhub/internal/database"
	"github.com/ryuqq/authhub/internal/http"
	identityService "github.com/ryuqq/authhub/internal/identity/service"
	identityUseCase "github.com/ryuqq/authhub/internal/identity/usecase"
	"github.com/ryuqq/authhub/internal/metrics"
	policyHttp "github.com/ryuqq/authhub/internal/policy/http"
	policyUseCase "github.com/ryuqq/authhub/internal/policy/usecase"
	ratelimitHttp "github.com/ryuqq/authhub/internal/ratelimit/http"
	ratelimitUseCase "github.com/ryuqq/authhub/internal/ratelimit/usecase"
	revocationHttp "github.com/ryuqq/authhub/internal/revocation/http"
	revocationUseCase "github.com/ryuqq/authhub/internal/revocation/usecase"
	tokenHttp "github.com/ryuqq/authhub/internal/token/http"
	tokenService "github.com/ryuqq/authhub/internal/token/service"
	tokenUseCase "github.com/ryuqq/authhub/internal/token/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	db          *sql.DB
	redisClient *redis.Client

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	policyRepo  policyUseCase.PolicyRepository
	userRepo    identityUseCase.UserRepository
	counterRepo ratelimitUseCase.CounterRepository
	revokedRepo revocationUseCase.RevocationRepository
	auditRepo   auditUseCase.AuditRepository

	// Services
	passwordService identityService.PasswordService
	tokenService    tokenService.TokenService

	// Use cases
	policyRegistry     policyUseCase.PolicyRegistry
	policyUC           policyUseCase.PolicyUseCase
	authorizationUC    policyUseCase.AuthorizationUseCase
	identityUC         identityUseCase.IdentityUseCase
	tokenUC            tokenUseCase.TokenUseCase
	revocationUC       revocationUseCase.RevocationUseCase
	rateLimitUC        ratelimitUseCase.RateLimitUseCase
	auditUC            auditUseCase.AuditUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	redisInit           sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	policyRepoInit      sync.Once
	userRepoInit        sync.Once
	counterRepoInit     sync.Once
	revokedRepoInit     sync.Once
	auditRepoInit       sync.Once
	passwordSvcInit     sync.Once
	tokenSvcInit        sync.Once
	policyRegistryInit  sync.Once
	policyUCInit        sync.Once
	authorizationInit   sync.Once
	identityUCInit      sync.Once
	tokenUCInit         sync.Once
	revocationUCInit    sync.Once
	rateLimitUCInit     sync.Once
	auditUCInit         sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// RedisClient returns the Redis client shared by the revocation store and the
// rate-limit counters.
func (c *Container) RedisClient() *redis.Client {
	c.redisInit.Do(func() {
		c.redisClient = redis.NewClient(&redis.Options{
			Addr:     c.config.RedisAddr,
			Password: c.config.RedisPassword,
			DB:       c.config.RedisDB,
		})
	})
	return c.redisClient
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics
// are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with the full request pipeline wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initHTTPServer assembles the handlers and the pipeline.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	tokenUC, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}
	identityUC, err := c.IdentityUseCase()
	if err != nil {
		return nil, err
	}
	policyUC, err := c.PolicyUseCase()
	if err != nil {
		return nil, err
	}
	authorizationUC, err := c.AuthorizationUseCase()
	if err != nil {
		return nil, err
	}
	revocationUC, err := c.RevocationUseCase()
	if err != nil {
		return nil, err
	}
	rateLimitUC, err := c.RateLimitUseCase()
	if err != nil {
		return nil, err
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, err
	}
	tokenSvc := c.TokenService()

	pipeline := http.Pipeline{
		Audit: auditHttp.AuditMiddleware(auditUC, logger),
		Revocation: revocationHttp.RevocationMiddleware(
			revocationUC,
			tokenSvc,
			revocationHttp.Options{FailOpenReads: c.config.RevocationFailOpenReads},
			logger,
		),
		RateLimit: ratelimitHttp.RateLimitMiddleware(
			rateLimitUC,
			ratelimitHttp.Options{
				Enabled:    c.config.RateLimitEnabled,
				FailClosed: c.config.RateLimitFailClosed,
			},
			logger,
		),
		Authentication: tokenHttp.AuthenticationMiddleware(tokenUC, logger),
		Authorization:  policyHttp.AuthorizationMiddleware(authorizationUC, logger),
	}

	if c.config.LoginRateLimitEnabled {
		limiter := tokenHttp.NewLoginRateLimiter(
			c.config.LoginRateLimitRequestsPerSec,
			c.config.LoginRateLimitBurst,
			logger,
		)
		pipeline.LoginRateLimit = limiter.Middleware()
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		pipeline.Metrics = metrics.HTTPMetricsMiddleware(
			provider.MeterProvider(), c.config.MetricsNamespace)
	}

	return http.NewServer(
		c.config,
		db,
		logger,
		pipeline,
		tokenHttp.NewTokenHandler(tokenUC, identityUC, logger),
		policyHttp.NewPolicyHandler(policyUC, logger),
		auditHttp.NewAuditHandler(auditUC, logger),
	), nil
}
