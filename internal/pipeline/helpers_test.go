package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func testFrame(rows int) dataframe.DataFrame {
	ids := make([]int, rows)
	cats := make([]string, rows)
	for i := range ids {
		ids[i] = i
		cats[i] = []string{"a", "b", "c"}[i%3]
	}
	return dataframe.New(
		series.New(ids, series.Int, "id"),
		series.New(cats, series.String, "category"),
	)
}

func staticLoader(rows int) Loader {
	return LoaderFunc(func(_ context.Context, _ string) (*Dataset, error) {
		return NewDataset(testFrame(rows)), nil
	})
}

// countingWriter remembers the rows of the last handle it saved.
type countingWriter struct {
	rows  int
	calls int
}

func (w *countingWriter) Save(_ context.Context, ds *Dataset, dir string) ([]string, error) {
	w.calls++
	w.rows = ds.Rows()
	return []string{dir + "/out.csv"}, nil
}

// callTracker records which stages actually ran.
type callTracker struct {
	mu    sync.Mutex
	calls []StageName
}

func (c *callTracker) transform(stage StageName) Transform {
	return TransformFunc(func(_ context.Context, ds *Dataset) (*Dataset, error) {
		c.mu.Lock()
		c.calls = append(c.calls, stage)
		c.mu.Unlock()
		return ds.With(ds.Frame()), nil
	})
}

func (c *callTracker) ran() []StageName {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StageName(nil), c.calls...)
}

type observedStage struct {
	stage string
	d     time.Duration
	err   error
}

type fakeObserver struct {
	mu     sync.Mutex
	stages []observedStage
	rows   map[string]int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{rows: make(map[string]int)}
}

func (o *fakeObserver) ObserveStage(stage string, d time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, observedStage{stage: stage, d: d, err: err})
}

func (o *fakeObserver) ObserveRows(stage string, rows int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rows[stage] = rows
}
