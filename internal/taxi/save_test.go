package taxi

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/files"
)

func TestRunWritesResults(t *testing.T) {
	trips := sampleTrips(100)
	input := writeTrips(t, t.TempDir(), "trips.csv", trips)
	outDir := filepath.Join(t.TempDir(), "results")

	runner := pipeline.NewRunner(NewStages(Options{Prefix: "test"}))
	res, err := runner.Run(context.Background(), input, outDir)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateSaved, res.State)
	assert.Equal(t, 100, res.Rows)

	var names []string
	for _, f := range res.Files {
		names = append(names, filepath.Base(f))
		assert.FileExists(t, f)
	}
	assert.Equal(t, []string{
		"test_daily_stats.csv",
		"test_hourly_stats.csv",
		"test_dow_stats.csv",
		"test_passenger_dist.csv",
		"test_distance_analysis.csv",
		"test_longest_trips.csv",
		"test_summary.json",
	}, names)

	for _, stage := range pipeline.Order {
		secs, ok := res.Metrics.Seconds(stage)
		assert.True(t, ok, stage)
		assert.GreaterOrEqual(t, secs, 0.0)
	}
	assert.Equal(t, 100.0, res.Metrics.Counts["rows_loaded"])

	valid := validTrips(trips)
	var summary Summary
	require.NoError(t, files.ReadJSON(filepath.Join(outDir, "test_summary.json"), &summary))
	assert.Equal(t, len(valid), summary.TotalRows)
	assert.InDelta(t, sumOf(valid, func(tr trip) float64 { return tr.distance }), summary.TotalDistance, 1e-6)
	assert.InDelta(t, sumOf(valid, func(tr trip) float64 { return tr.total }), summary.TotalRevenue, 1e-6)
	first, last := valid[0].start, valid[0].start
	for _, tr := range valid {
		if tr.start.Before(first) {
			first = tr.start
		}
		if tr.start.After(last) {
			last = tr.start
		}
	}
	assert.Equal(t, first.Format(TimestampLayout), summary.DateRange.Start)
	assert.Equal(t, last.Format(TimestampLayout), summary.DateRange.End)
}

func TestWriterCompressesAndWritesDataset(t *testing.T) {
	ds := through(t, loadTrips(t, sampleTrips(30)), DefaultCleaner(), Aggregator{}, SortFilter{})
	dir := t.TempDir()

	written, err := Writer{Prefix: "gz", Compress: true, WriteDataset: true}.Save(context.Background(), ds, dir)
	require.NoError(t, err)
	assert.Contains(t, written, filepath.Join(dir, "gz_trips.csv.gz"))
	assert.Contains(t, written, filepath.Join(dir, "gz_daily_stats.csv.gz"))

	r, err := files.Open(filepath.Join(dir, "gz_daily_stats.csv.gz"))
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trip_distance_mean")
}

func TestWriterReportsWriteError(t *testing.T) {
	ds := through(t, loadTrips(t, sampleTrips(10)), DefaultCleaner(), Aggregator{}, SortFilter{})
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Writer{}.Save(context.Background(), ds, blocker)

	var we *pipeline.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, blocker, we.Path)
}

func TestSummarizeEmptyFrame(t *testing.T) {
	trips := sampleTrips(3)
	for i := range trips {
		trips[i].pickup = ""
	}
	ds := through(t, loadTrips(t, trips), DefaultCleaner())

	assert.Equal(t, Summary{}, Summarize(ds.Frame()))
}

func sumOf(trips []trip, f func(trip) float64) float64 {
	total := 0.0
	for _, tr := range trips {
		total += f(tr)
	}
	return total
}
