package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/etlbench/internal/api/middleware"
	"github.com/GriffinCanCode/etlbench/internal/benchmark"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/utils"
)

// statusClientClosed is the nginx convention for a client that went away.
const statusClientClosed = 499

// Handlers contains all HTTP handlers
type Handlers struct {
	provider benchmark.Provider
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(provider benchmark.Provider, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{provider: provider, logger: logger}
}

// Register mounts the handlers on router.
func (h *Handlers) Register(router gin.IRoutes) {
	router.GET("/", h.Health)
	router.GET("/health", h.Health)
	router.GET("/benchmark", h.Benchmark)
	router.GET("/info", h.Info)
}

// Health returns the service descriptor
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, benchmark.NewHealth(h.provider.Mode()))
}

// Info returns the comparison descriptor
func (h *Handlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, benchmark.NewInfo())
}

// Benchmark returns benchmark metrics. Live mode validates sample_size;
// demo mode accepts anything.
func (h *Handlers) Benchmark(c *gin.Context) {
	sampleSize := 0
	if h.provider.Mode() == benchmark.ModeLive {
		n, err := utils.ParseSampleSize(c.Query("sample_size"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sampleSize = n
	}

	res, err := h.provider.Benchmark(c.Request.Context(), sampleSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if stage, ok := pipeline.FailedStage(err); ok {
		body["stage"] = stage.String()
	}

	h.logger.Warn("Benchmark failed",
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", middleware.RequestIDFrom(c.Request.Context())),
	)
	c.JSON(status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}
