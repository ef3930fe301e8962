package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/etlbench/internal/api/http"
	"github.com/GriffinCanCode/etlbench/internal/api/middleware"
	"github.com/GriffinCanCode/etlbench/internal/benchmark"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/config"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/logging"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	provider benchmark.Provider
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing ETL benchmark server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("mode", cfg.Benchmark.Mode),
	)

	metrics := monitoring.NewMetrics()
	provider := NewProvider(cfg, logger, metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Int("global_rps", cfg.RateLimit.GlobalRequestsPerSecond),
			zap.Int("global_burst", cfg.RateLimit.GlobalBurst),
		)
		if cfg.RateLimit.GlobalRequestsPerSecond > 0 {
			router.Use(middleware.GlobalRateLimit(middleware.GlobalFromConfig(cfg.RateLimit)))
		}
		router.Use(middleware.RateLimit(middleware.FromConfig(cfg.RateLimit)))
	}

	apihttp.NewHandlers(provider, logger.Logger).Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: router,
		},
		provider: provider,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}
}

// NewProvider selects the benchmark provider named by the config.
func NewProvider(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) benchmark.Provider {
	if cfg.Benchmark.Mode != config.ModeLive {
		return benchmark.Demo{}
	}

	logger.Info("Live benchmark mode",
		zap.String("input", cfg.Pipeline.Input),
		zap.Duration("cache_ttl", cfg.Benchmark.CacheTTL),
		zap.Duration("request_timeout", cfg.Benchmark.RequestTimeout),
	)
	return benchmark.NewLive(benchmark.LiveConfig{
		Input:          cfg.Pipeline.Input,
		Prefix:         cfg.Pipeline.Prefix,
		Compress:       cfg.Pipeline.Compress,
		StageTimeout:   cfg.Pipeline.StageTimeout,
		RequestTimeout: cfg.Benchmark.RequestTimeout,
		CacheTTL:       cfg.Benchmark.CacheTTL,

		BreakerThreshold: cfg.Benchmark.BreakerThreshold,
		BreakerCooldown:  cfg.Benchmark.BreakerCooldown,
	},
		benchmark.WithLogger(logger.Logger),
		benchmark.WithMetrics(metrics),
	)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Provider returns the benchmark provider in use.
func (s *Server) Provider() benchmark.Provider {
	return s.provider
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.closeProvider()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	return s.Close()
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
		err = fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.closeProvider()

	_ = s.logger.Sync()
	return err
}

func (s *Server) closeProvider() {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("Failed to close benchmark provider", zap.Error(err))
	}
}
