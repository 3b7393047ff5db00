// Package http provides the HTTP server and the ordered request pipeline.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHttp "github.com/ryuqq/authhub/internal/audit/http"
	"github.com/ryuqq/authhub/internal/config"
	policyHttp "github.com/ryuqq/authhub/internal/policy/http"
	tokenHttp "github.com/ryuqq/authhub/internal/token/http"
)

// Pipeline holds the ordered request middlewares. Stages are explicit fields
// rather than a middleware list so the wiring order is visible at the type
// level: audit wraps everything, then revocation, rate limiting,
// authentication, and authorization run in that order on protected routes.
// Optional stages are nil when disabled.
type Pipeline struct {
	// Audit wraps every route and always emits a record.
	Audit gin.HandlerFunc
	// Revocation rejects revoked tokens before any other credential work.
	Revocation gin.HandlerFunc
	// RateLimit enforces the shared fixed-window quotas.
	RateLimit gin.HandlerFunc
	// Authentication resolves the caller identity.
	Authentication gin.HandlerFunc
	// Authorization evaluates the endpoint policy for the identity.
	Authorization gin.HandlerFunc
	// LoginRateLimit guards only the login route. Optional.
	LoginRateLimit gin.HandlerFunc
	// Metrics records HTTP request metrics. Optional.
	Metrics gin.HandlerFunc
}

// Server is the public API server.
type Server struct {
	config   *config.Config
	db       *sql.DB
	logger   *slog.Logger
	router   *gin.Engine
	server   *http.Server
	pipeline Pipeline

	tokenHandler  *tokenHttp.TokenHandler
	policyHandler *policyHttp.PolicyHandler
	auditHandler  *auditHttp.AuditHandler
}

// NewServer creates the API server with its handlers and pipeline.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	pipeline Pipeline,
	tokenHandler *tokenHttp.TokenHandler,
	policyHandler *policyHttp.PolicyHandler,
	auditHandler *auditHttp.AuditHandler,
) *Server {
	return &Server{
		config:   cfg,
		db:       db,
		logger:   logger,
		pipeline: pipeline,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tokenHandler:  tokenHandler,
		policyHandler: policyHandler,
		auditHandler:  auditHandler,
	}
}

// setupRouter builds the gin engine with the full pipeline.
//
// The auth endpoints and health checks are public: they skip revocation, rate
// limiting, authentication, and authorization, since they either mint the
// credentials those stages check or must answer while backing stores are down.
// Audit and request logging still cover them.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if s.pipeline.Metrics != nil {
		router.Use(s.pipeline.Metrics)
	}
	router.Use(s.pipeline.Audit)

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	auth := router.Group("/api/v1/auth")
	if s.pipeline.LoginRateLimit != nil {
		auth.POST("/login", s.pipeline.LoginRateLimit, s.tokenHandler.LoginHandler)
	} else {
		auth.POST("/login", s.tokenHandler.LoginHandler)
	}
	auth.POST("/refresh", s.tokenHandler.RefreshHandler)
	auth.POST("/logout", s.tokenHandler.LogoutHandler)
	auth.POST("/register", s.tokenHandler.RegisterHandler)

	protected := router.Group("/api/v1")
	protected.Use(
		s.pipeline.Revocation,
		s.pipeline.RateLimit,
		s.pipeline.Authentication,
		s.pipeline.Authorization,
	)
	protected.GET("/me", s.tokenHandler.MeHandler)
	protected.POST("/policies", s.policyHandler.CreateHandler)
	protected.GET("/policies", s.policyHandler.ListHandler)
	protected.POST("/policies/reload", s.policyHandler.ReloadHandler)
	protected.GET("/audit-logs", s.auditHandler.ListHandler)

	return router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.router = s.setupRouter()
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, checking the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
