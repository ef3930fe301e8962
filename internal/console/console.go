package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/etlbench/internal/infrastructure/config"
	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/report"
	"github.com/GriffinCanCode/etlbench/internal/shared/paths"
	"github.com/GriffinCanCode/etlbench/internal/taxi"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Option customizes a Console.
type Option func(*Console)

// WithLogger sets the structured logger passed to the runner.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStages replaces the taxi stages.
func WithStages(stages pipeline.Stages) Option {
	return func(c *Console) { c.stages = &stages }
}

// Console runs the pipeline once and reports to out.
type Console struct {
	cfg    config.PipelineConfig
	out    io.Writer
	logger *zap.Logger
	stages *pipeline.Stages
}

// New creates a console runner.
func New(cfg config.PipelineConfig, out io.Writer, opts ...Option) *Console {
	c := &Console{cfg: cfg, out: out, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the benchmark and returns the process exit code.
func (c *Console) Run(ctx context.Context) int {
	if _, err := os.Stat(c.cfg.Input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(c.out, "❌ Data file not found: %s\n", c.cfg.Input)
			return ExitOK
		}
		fmt.Fprintf(c.out, "❌ Error during ETL benchmark: %v\n", err)
		return ExitFailure
	}
	if err := os.MkdirAll(c.cfg.Output, 0o755); err != nil {
		fmt.Fprintf(c.out, "❌ Error during ETL benchmark: %v\n", err)
		return ExitFailure
	}

	report.Banner(c.out, "🐹 STARTING GO ETL BENCHMARK")

	runner := pipeline.NewRunner(c.pipelineStages(),
		pipeline.WithLogger(c.logger),
		pipeline.WithObserver(report.NewProgress(c.out)),
		pipeline.WithStageTimeout(c.cfg.StageTimeout),
	)
	res, err := runner.Run(ctx, c.cfg.Input, c.cfg.Output)
	if err != nil {
		fmt.Fprintf(c.out, "❌ Error during ETL benchmark: %v\n", err)
		return ExitFailure
	}

	report.Summary(c.out, res)

	metricsPath := paths.NewOutput(c.cfg.Output, c.cfg.Prefix).Metrics()
	if err := report.WriteMetrics(metricsPath, res.Metrics); err != nil {
		c.logger.Error("Failed to write metrics", zap.Error(err))
		fmt.Fprintf(c.out, "❌ Error during ETL benchmark: %v\n", err)
		return ExitFailure
	}
	c.logger.Info("Metrics written", zap.String("path", metricsPath))
	return ExitOK
}

func (c *Console) pipelineStages() pipeline.Stages {
	if c.stages != nil {
		return *c.stages
	}
	return taxi.NewStages(taxi.Options{
		Limit:        c.cfg.RowLimit,
		Prefix:       c.cfg.Prefix,
		Compress:     c.cfg.Compress,
		WriteDataset: c.cfg.WriteDataset,
	})
}
