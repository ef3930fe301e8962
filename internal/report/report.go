package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/files"
)

const rule = "=================================================="

// MetricName turns a snake_case metric key into a display name.
func MetricName(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Comma formats n with thousands separators.
func Comma(n float64) string {
	return humanize.Comma(int64(n))
}

// Banner prints a headline between two rules.
func Banner(w io.Writer, headline string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, headline)
	fmt.Fprintln(w, rule)
}

// Progress prints one line per completed stage. It implements
// pipeline.Observer.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	elapsed map[string]time.Duration
}

// NewProgress creates a progress printer writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w, elapsed: make(map[string]time.Duration)}
}

// ObserveStage remembers the stage time. Failures are reported by the caller.
func (p *Progress) ObserveStage(stage string, d time.Duration, err error) {
	if err != nil {
		return
	}
	p.mu.Lock()
	p.elapsed[stage] = d
	p.mu.Unlock()
}

// ObserveRows prints the completion line for stage.
func (p *Progress) ObserveRows(stage string, rows int) {
	p.mu.Lock()
	d := p.elapsed[stage]
	p.mu.Unlock()

	fmt.Fprintf(p.w, "✅ %s: %s rows in %.2fs\n",
		MetricName(stage), humanize.Comma(int64(rows)), d.Seconds())
}

// Summary prints the closing block of a successful run.
func Summary(w io.Writer, res *pipeline.Result) {
	m := res.Metrics

	fmt.Fprintln(w)
	Banner(w, "🎉 GO ETL BENCHMARK COMPLETE!")
	fmt.Fprintf(w, "⏱️  Total time: %.2f seconds\n", m.TotalSeconds)
	fmt.Fprintf(w, "📊 Processed: %s rows\n", humanize.Comma(int64(res.Rows)))
	if clean, ok := m.Counts["rows_after_cleaning"]; ok {
		fmt.Fprintf(w, "✨ Clean data: %s rows\n", Comma(clean))
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "📈 Key Performance Metrics:")
	for _, t := range m.Timings {
		fmt.Fprintf(w, "  %s: %.2fs\n", MetricName(t.Stage.MetricKey()), t.Seconds)
	}
	fmt.Fprintf(w, "  %s: %.2fs\n", MetricName("total_time"), m.TotalSeconds)

	if len(m.CountOrder) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🔢 Counts:")
	for _, name := range m.CountOrder {
		fmt.Fprintf(w, "  %s: %s\n", MetricName(name), Comma(m.Counts[name]))
	}
}

// WriteMetrics persists the flattened snapshot as JSON.
func WriteMetrics(path string, m pipeline.Snapshot) error {
	if err := files.WriteJSON(path, m.Flatten()); err != nil {
		return &pipeline.WriteError{Path: path, Err: err}
	}
	return nil
}
