package pipeline

import "context"

// StageName identifies one step of the pipeline.
type StageName string

const (
	StageLoad       = StageName("load")
	StageClean      = StageName("clean")
	StageAggregate  = StageName("aggregate")
	StageSortFilter = StageName("sort_filter")
	StageSave       = StageName("save")
)

// Order is the fixed stage sequence.
var Order = []StageName{StageLoad, StageClean, StageAggregate, StageSortFilter, StageSave}

func (n StageName) String() string { return string(n) }

// MetricKey is the recorder key used for the stage's elapsed seconds.
func (n StageName) MetricKey() string { return string(n) + "_time" }

// Loader produces the first dataset handle from a filesystem path.
type Loader interface {
	Load(ctx context.Context, path string) (*Dataset, error)
}

// Transform consumes a handle and produces a new one.
type Transform interface {
	Apply(ctx context.Context, ds *Dataset) (*Dataset, error)
}

// Writer persists a handle and reports the files it wrote.
type Writer interface {
	Save(ctx context.Context, ds *Dataset, dir string) ([]string, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (*Dataset, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (*Dataset, error) {
	return f(ctx, path)
}

// TransformFunc adapts a function to Transform.
type TransformFunc func(ctx context.Context, ds *Dataset) (*Dataset, error)

func (f TransformFunc) Apply(ctx context.Context, ds *Dataset) (*Dataset, error) {
	return f(ctx, ds)
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, ds *Dataset, dir string) ([]string, error)

func (f WriterFunc) Save(ctx context.Context, ds *Dataset, dir string) ([]string, error) {
	return f(ctx, ds, dir)
}

// Passthrough is a Transform that hands back an equivalent handle.
var Passthrough Transform = TransformFunc(func(_ context.Context, ds *Dataset) (*Dataset, error) {
	return ds.With(ds.Frame()), nil
})

// Stages bundles the five stage implementations a Runner needs.
type Stages struct {
	Loader     Loader
	Cleaner    Transform
	Aggregator Transform
	Filter     Transform
	Writer     Writer
}
