package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GriffinCanCode/etlbench/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/utils"
	"github.com/GriffinCanCode/etlbench/internal/taxi"
)

// StageFactory builds the stages for one run limited to sampleSize rows.
type StageFactory func(sampleSize int) pipeline.Stages

// LiveConfig configures a Live provider.
type LiveConfig struct {
	Input          string
	Prefix         string
	Compress       bool
	StageTimeout   time.Duration
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	// BreakerThreshold consecutive failed runs open the circuit breaker
	// for BreakerCooldown. Zero disables the breaker.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// LiveOption customizes a Live provider.
type LiveOption func(*Live)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LiveOption {
	return func(l *Live) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics reports stage timings and cache lookups to Prometheus.
func WithMetrics(m *monitoring.Metrics) LiveOption {
	return func(l *Live) { l.metrics = m }
}

// WithStages replaces the taxi stages.
func WithStages(f StageFactory) LiveOption {
	return func(l *Live) { l.stages = f }
}

// Live runs the pipeline per request and caches the outcome.
type Live struct {
	cfg     LiveConfig
	logger  *zap.Logger
	metrics *monitoring.Metrics
	stages  StageFactory
	hasher  *utils.Hasher
	cache   *Cache
	breaker *resilience.Breaker
	group   singleflight.Group
}

// NewLive creates a Live provider with an empty cache.
func NewLive(cfg LiveConfig, opts ...LiveOption) *Live {
	l := &Live{
		cfg:    cfg,
		logger: zap.NewNop(),
		hasher: utils.DefaultHasher(),
		cache:  NewCache(cfg.CacheTTL),
	}
	l.stages = func(sampleSize int) pipeline.Stages {
		return taxi.NewStages(taxi.Options{
			Limit:    sampleSize,
			Prefix:   cfg.Prefix,
			Compress: cfg.Compress,
		})
	}
	for _, opt := range opts {
		opt(l)
	}
	if cfg.BreakerThreshold > 0 {
		l.breaker = resilience.New(resilience.Settings{
			Threshold: uint32(cfg.BreakerThreshold),
			Cooldown:  cfg.BreakerCooldown,
			IsFailure: countsAgainstBreaker,
			OnStateChange: func(from, to resilience.State) {
				l.logger.Warn("Live benchmark circuit breaker",
					zap.Stringer("from", from),
					zap.Stringer("to", to),
				)
			},
		})
	}
	return l
}

// Mode implements Provider.
func (l *Live) Mode() string { return ModeLive }

// Benchmark implements Provider. Errors wrap pipeline.ErrFileNotFound, a
// *pipeline.StageError, context.DeadlineExceeded or resilience.ErrCircuitOpen.
func (l *Live) Benchmark(ctx context.Context, sampleSize int) (*Result, error) {
	info, err := os.Stat(l.cfg.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", pipeline.ErrFileNotFound, l.cfg.Input)
		}
		return nil, err
	}

	key := l.hasher.DatasetKey(l.cfg.Input, info, sampleSize)
	if res, ok := l.cache.Get(key); ok {
		l.recordLookup(true)
		return cachedCopy(res), nil
	}
	l.recordLookup(false)
	l.logger.Debug("Live benchmark cache miss",
		zap.String("key", utils.ShortHash(key)),
		zap.Int("sample_size", sampleSize),
	)

	// the run outlives any single caller; it is bounded by RequestTimeout
	ch := l.group.DoChan(key, func() (interface{}, error) {
		runCtx := context.WithoutCancel(ctx)
		if l.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, l.cfg.RequestTimeout)
			defer cancel()
		}
		res, err := l.guardedRun(runCtx, info, sampleSize)
		if err != nil {
			return nil, err
		}
		l.cache.Put(key, res)
		l.setEntries()
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return nil, out.Err
		}
		res := *out.Val.(*Result)
		return &res, nil
	}
}

// Close clears the cache.
func (l *Live) Close() error {
	l.cache.Clear()
	l.setEntries()
	return nil
}

// guardedRun passes the run through the circuit breaker when one is configured.
func (l *Live) guardedRun(ctx context.Context, info os.FileInfo, sampleSize int) (*Result, error) {
	if l.breaker == nil {
		return l.run(ctx, info, sampleSize)
	}
	var res *Result
	err := l.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		res, err = l.run(ctx, info, sampleSize)
		return err
	})
	return res, err
}

// countsAgainstBreaker ignores failures caused by the caller rather than the run.
func countsAgainstBreaker(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, pipeline.ErrFileNotFound)
}

func (l *Live) run(ctx context.Context, info os.FileInfo, sampleSize int) (*Result, error) {
	dir, err := os.MkdirTemp("", "etlbench-live-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	opts := []pipeline.Option{
		pipeline.WithLogger(l.logger),
		pipeline.WithStageTimeout(l.cfg.StageTimeout),
	}
	var timer *monitoring.Timer
	if l.metrics != nil {
		opts = append(opts, pipeline.WithObserver(l.metrics))
		timer = monitoring.NewTimer(l.metrics, ModeLive)
	}

	runner := pipeline.NewRunner(l.stages(sampleSize), opts...)
	res, err := runner.Run(ctx, l.cfg.Input, dir)
	if timer != nil {
		timer.Stop(outcome(err))
	}
	if err != nil {
		return nil, err
	}

	l.logger.Info("Live benchmark complete",
		zap.String("run_id", res.RunID),
		zap.Int("sample_size", sampleSize),
		zap.Int("rows", res.Rows),
	)
	return liveResult(res, info, sampleSize), nil
}

func liveResult(res *pipeline.Result, info os.FileInfo, sampleSize int) *Result {
	metrics := res.Metrics.Flatten()
	metrics["rows_processed"] = float64(res.Rows)

	return &Result{
		Mode:               ModeLive,
		Metrics:            metrics,
		Message:            "✅ Go ETL benchmark completed successfully!",
		PerformanceSummary: performanceSummary(int64(res.Rows), res.Metrics.TotalSeconds),
		DatasetInfo: DatasetInfo{
			Name:    info.Name(),
			Rows:    int64(res.Rows),
			SizeMB:  humanize.Bytes(uint64(info.Size())),
			Columns: res.Columns,
		},
		SampleSize: sampleSize,
		RunID:      res.RunID,
	}
}

func cachedCopy(res *Result) *Result {
	out := *res
	out.Cached = true
	return &out
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "failed"
	}
}

func (l *Live) recordLookup(hit bool) {
	if l.metrics != nil {
		l.metrics.RecordCacheLookup(hit)
	}
}

func (l *Live) setEntries() {
	if l.metrics != nil {
		l.metrics.SetCacheEntries(l.cache.Len())
	}
}
