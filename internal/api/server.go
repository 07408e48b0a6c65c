// Package api serves the allocator over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/inventory-allocator/internal/api/handlers"
	"github.com/eshaffer321/inventory-allocator/internal/api/middleware"
	"github.com/eshaffer321/inventory-allocator/internal/application/service"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/metrics"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	svc        *service.AllocationService
}

// NewServer creates a new API server.
func NewServer(cfg Config, svc *service.AllocationService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config: cfg,
		router: gin.New(),
		logger: logger,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Logging and metrics wrap recovery so a recovered panic is still
	// reported with its 500.
	s.router.Use(middleware.Logging(s.logger, "/health"))
	s.router.Use(middleware.Metrics())
	s.router.Use(gin.CustomRecoveryWithWriter(io.Discard, s.recoverPanic))

	corsConfig := middleware.DefaultCORSConfig()
	if len(s.config.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = s.config.AllowedOrigins
	}
	s.router.Use(middleware.CORS(corsConfig))
}

// recoverPanic logs a handler panic and answers 500.
func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error("handler panicked", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
	c.AbortWithStatus(http.StatusInternalServerError)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", handlers.NewHealthHandler().Get)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	{
		allocationsHandler := handlers.NewAllocationsHandler(s.svc)
		api.POST("/allocations", allocationsHandler.Create)
		api.GET("/allocations", allocationsHandler.List)
		api.GET("/allocations/:id", allocationsHandler.Get)

		statsHandler := handlers.NewStatsHandler(s.svc)
		api.GET("/stats", statsHandler.Get)
	}
}

// Start starts the HTTP server and blocks until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the HTTP handler for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
