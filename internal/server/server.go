package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notevault/backend/internal/config"
	"github.com/notevault/backend/internal/http"
	"github.com/notevault/backend/internal/infrastructure/monitoring"
	"github.com/notevault/backend/internal/infrastructure/resilience"
	"github.com/notevault/backend/internal/logging"
	"github.com/notevault/backend/internal/middleware"
	"github.com/notevault/backend/internal/providers/scripts"
	"github.com/notevault/backend/internal/providers/vaultops"
	"github.com/notevault/backend/internal/service"
	"github.com/notevault/backend/internal/vault"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	srv      *nethttp.Server
	registry *service.Registry
	logger   *logging.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()

	// Vault store client, guarded by a circuit breaker and metered so
	// store traffic shows up in /metrics
	breaker := resilience.New("vault", resilience.Options{
		Probes:    3,
		Window:    60 * time.Second,
		Cooldown:  30 * time.Second,
		TripAfter: 5,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	store := monitoring.NewMeteredStore(
		vault.NewBreakerStore(
			vault.NewHTTPStore(vault.ClientConfig{
				BaseURL:    cfg.Vault.BaseURL,
				APIKey:     cfg.Vault.APIKey,
				Timeout:    30 * time.Second,
				MaxRetries: 3,
			}),
			breaker,
		),
		metrics,
	)

	// Register service providers
	registry := service.NewRegistry()
	registerProviders(registry, store, logger, metrics, cfg.Sandbox)

	stats := registry.Stats()
	logger.Info("service registry initialized",
		zap.Any("total_services", stats["total_services"]),
		zap.Any("total_tools", stats["total_tools"]),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	// Create handlers
	handlers := http.NewHandlers(registry, metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		router:   router,
		srv:      &nethttp.Server{Addr: addr, Handler: router},
		registry: registry,
		logger:   logger,
	}, nil
}

// Run starts the server
func (s *Server) Run() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}

// Close cleans up resources
func (s *Server) Close() error {
	return s.logger.Sync()
}

func registerProviders(registry *service.Registry, store vault.Store, logger *logging.Logger, metrics *monitoring.Metrics, limits config.SandboxConfig) {
	// Vault operations provider
	if err := registry.Register(vaultops.NewProvider(store)); err != nil {
		logger.Warn("failed to register vault provider", zap.Error(err))
	}

	// Script execution provider, with configured default limits
	executor := scripts.NewExecutor(store, logger.Named("scripts")).
		WithMetrics(metrics).
		WithDefaults(scripts.Options{
			TimeoutMs:   limits.TimeoutMs,
			MemoryLimit: limits.MemoryLimit,
		})
	if err := registry.Register(scripts.NewProvider(executor)); err != nil {
		logger.Warn("failed to register scripts provider", zap.Error(err))
	}
}
