package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/etlbench/internal/shared/id"
)

// Observer receives stage instrumentation. monitoring.Metrics implements it.
type Observer interface {
	ObserveStage(stage string, d time.Duration, err error)
	ObserveRows(stage string, rows int)
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the structured logger used for stage events.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver attaches an instrumentation sink.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithStageTimeout bounds each stage. Zero disables the bound.
func WithStageTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(runID string) Option {
	return func(r *Runner) {
		if runID != "" {
			r.runID = runID
		}
	}
}

// Runner executes the stage sequence for one run. A Runner is single use.
type Runner struct {
	stages   Stages
	logger   *zap.Logger
	observer Observer
	timeout  time.Duration
	runID    string

	mu      sync.Mutex
	state   State
	ds      *Dataset
	rec     *Recorder
	files   []string
	columns int
}

// Result describes a finished run.
type Result struct {
	RunID   string
	State   State
	Rows    int
	Columns int
	Files   []string
	Metrics Snapshot
}

// NewRunner creates a runner in the Uninitialized state.
func NewRunner(stages Stages, opts ...Option) *Runner {
	r := &Runner{
		stages: stages,
		logger: zap.NewNop(),
		runID:  id.NewRunID().String(),
		state:  StateUninitialized,
		rec:    NewRecorder(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("run_id", r.runID))
	return r
}

// RunID returns the identifier attached to every log line of this run.
func (r *Runner) RunID() string {
	return r.runID
}

// State returns the current pipeline state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dataset returns the current handle, or nil before load and after save or failure.
func (r *Runner) Dataset() *Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ds
}

// Metrics returns the recorded metrics once the run is Saved or Failed.
func (r *Runner) Metrics() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.Terminal() {
		return Snapshot{}, fmt.Errorf("%w (state %s)", ErrMetricsNotReady, r.state)
	}
	return r.rec.Snapshot(), nil
}

// Load reads the dataset at path.
func (r *Runner) Load(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.expect(StageLoad, StateUninitialized); err != nil {
		return err
	}
	out, err := r.execute(ctx, StageLoad, func(ctx context.Context) stageOutput {
		if r.stages.Loader == nil {
			return stageOutput{err: ErrStageMissing}
		}
		ds, err := r.stages.Loader.Load(ctx, path)
		return stageOutput{ds: ds, err: err}
	})
	if err != nil {
		return err
	}
	r.rec.SetCount("rows_loaded", float64(out.ds.Rows()))
	r.columns = len(out.ds.Columns())
	r.advance(out.ds, StateLoaded)
	return nil
}

// Clean applies the cleaning transform.
func (r *Runner) Clean(ctx context.Context) error {
	return r.transform(ctx, StageClean, StateLoaded, StateCleaned, r.stages.Cleaner)
}

// Aggregate applies the aggregation transform.
func (r *Runner) Aggregate(ctx context.Context) error {
	return r.transform(ctx, StageAggregate, StateCleaned, StateAggregated, r.stages.Aggregator)
}

// SortAndFilter applies the sort and filter transform.
func (r *Runner) SortAndFilter(ctx context.Context) error {
	return r.transform(ctx, StageSortFilter, StateAggregated, StateFiltered, r.stages.Filter)
}

// Save persists the dataset into dir and returns the files written.
// The handle is released afterwards. Files the writer reports before a
// failure are returned with the error and kept for the Result.
func (r *Runner) Save(ctx context.Context, dir string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.expect(StageSave, StateFiltered); err != nil {
		return nil, err
	}
	ds := r.ds
	out, err := r.execute(ctx, StageSave, func(ctx context.Context) stageOutput {
		if r.stages.Writer == nil {
			return stageOutput{err: ErrStageMissing}
		}
		files, err := r.stages.Writer.Save(ctx, ds, dir)
		return stageOutput{ds: ds, files: files, err: err}
	})
	r.files = out.files
	if err != nil {
		return append([]string(nil), out.files...), err
	}
	r.ds = nil
	r.state = StateSaved
	return append([]string(nil), out.files...), nil
}

// Run executes every stage in order. On failure the returned Result still
// carries the partial metrics alongside the error.
func (r *Runner) Run(ctx context.Context, path, dir string) (*Result, error) {
	start := time.Now()
	r.logger.Info("Pipeline starting", zap.String("input", path), zap.String("output", dir))

	err := r.runStages(ctx, path, dir)
	r.rec.SetTotal(time.Since(start))

	r.mu.Lock()
	res := &Result{
		RunID:   r.runID,
		State:   r.state,
		Columns: r.columns,
		Files:   append([]string(nil), r.files...),
		Metrics: r.rec.Snapshot(),
	}
	r.mu.Unlock()
	if rows, ok := res.Metrics.Counts["rows_loaded"]; ok {
		res.Rows = int(rows)
	}

	if err != nil {
		r.logger.Error("Pipeline failed", zap.Error(err), zap.Float64("total_seconds", res.Metrics.TotalSeconds))
		return res, err
	}
	r.logger.Info("Pipeline complete",
		zap.Int("rows", res.Rows),
		zap.Int("files", len(res.Files)),
		zap.Float64("total_seconds", res.Metrics.TotalSeconds),
	)
	return res, nil
}

func (r *Runner) runStages(ctx context.Context, path, dir string) error {
	if err := r.Load(ctx, path); err != nil {
		return err
	}
	if err := r.Clean(ctx); err != nil {
		return err
	}
	if err := r.Aggregate(ctx); err != nil {
		return err
	}
	if err := r.SortAndFilter(ctx); err != nil {
		return err
	}
	_, err := r.Save(ctx, dir)
	return err
}

func (r *Runner) transform(ctx context.Context, stage StageName, from, to State, t Transform) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.expect(stage, from); err != nil {
		return err
	}
	in := r.ds
	out, err := r.execute(ctx, stage, func(ctx context.Context) stageOutput {
		if t == nil {
			return stageOutput{err: ErrStageMissing}
		}
		ds, err := t.Apply(ctx, in)
		return stageOutput{ds: ds, err: err}
	})
	if err != nil {
		return err
	}
	r.advance(out.ds, to)
	return nil
}

// expect rejects calls that do not follow the predecessor stage.
func (r *Runner) expect(stage StageName, want State) error {
	switch {
	case r.state == StateFailed:
		return fmt.Errorf("%w: cannot run %s", ErrPipelineFailed, stage)
	case r.state != want:
		return fmt.Errorf("%w: %s requires state %s, runner is %s", ErrOutOfOrder, stage, want, r.state)
	}
	return nil
}

func (r *Runner) advance(ds *Dataset, to State) {
	for k, v := range ds.Counts() {
		r.rec.SetCount(k, v)
	}
	r.ds = ds
	r.state = to
}

type stageOutput struct {
	ds    *Dataset
	files []string
	err   error
}

// execute times fn, records the elapsed time unconditionally and moves the
// runner to Failed when fn errors.
func (r *Runner) execute(ctx context.Context, stage StageName, fn func(context.Context) stageOutput) (stageOutput, error) {
	r.logger.Debug("Stage starting", zap.String("stage", stage.String()))

	start := time.Now()
	out := r.call(ctx, fn)
	elapsed := time.Since(start)

	if out.err == nil && out.ds == nil {
		out.err = fmt.Errorf("stage returned no dataset")
	}

	r.rec.RecordStage(stage, elapsed)
	if r.observer != nil {
		r.observer.ObserveStage(stage.String(), elapsed, out.err)
	}

	if out.err != nil {
		r.state = StateFailed
		r.ds = nil
		r.logger.Error("Stage failed",
			zap.String("stage", stage.String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(out.err),
		)
		return out, &StageError{Stage: stage, Err: out.err}
	}

	if r.observer != nil {
		r.observer.ObserveRows(stage.String(), out.ds.Rows())
	}
	r.logger.Info("Stage complete",
		zap.String("stage", stage.String()),
		zap.Duration("elapsed", elapsed),
		zap.Int("rows", out.ds.Rows()),
	)
	return out, nil
}

// call runs fn under the stage timeout. On overrun the stage goroutine is
// left to finish on its own and its result is dropped.
func (r *Runner) call(ctx context.Context, fn func(context.Context) stageOutput) stageOutput {
	if err := ctx.Err(); err != nil {
		return stageOutput{err: err}
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if ctx.Done() == nil {
		return safeCall(ctx, fn)
	}

	done := make(chan stageOutput, 1)
	go func() {
		done <- safeCall(ctx, fn)
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		return stageOutput{err: ctx.Err()}
	}
}

func safeCall(ctx context.Context, fn func(context.Context) stageOutput) (out stageOutput) {
	defer func() {
		if p := recover(); p != nil {
			out = stageOutput{err: fmt.Errorf("stage panicked: %v", p)}
		}
	}()
	return fn(ctx)
}
