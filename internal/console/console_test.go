package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/etlbench/internal/infrastructure/config"
	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/files"
)

const tripsCSV = `VendorID,tpep_pickup_datetime,tpep_dropoff_datetime,passenger_count,trip_distance,pickup_longitude,pickup_latitude,RateCodeID,store_and_fwd_flag,dropoff_longitude,dropoff_latitude,payment_type,fare_amount,extra,mta_tax,tip_amount,tolls_amount,improvement_surcharge,total_amount
2,2015-01-15 19:05:39,2015-01-15 19:23:42,1,1.59,-73.99,40.75,1,N,-73.97,40.75,1,12,1,0.5,3.25,0,0.3,17.05
1,2015-01-10 20:33:38,2015-01-10 20:53:28,1,3.30,-74.00,40.72,1,N,-73.97,40.75,1,14.5,0.5,0.5,2,0,0.3,17.8
1,2015-01-10 20:33:38,2015-01-10 20:43:41,1,1.80,-73.96,40.80,1,N,-73.94,40.84,2,9.5,0.5,0.5,0,0,0.3,10.8
1,2015-01-10 20:33:39,2015-01-10 20:52:58,2,12.00,-73.97,40.76,1,N,-73.77,40.64,2,35,0.5,0.5,0,5.33,0.3,41.63
`

func pipelineConfig(t *testing.T, input string) config.PipelineConfig {
	t.Helper()
	cfg := config.Default().Pipeline
	cfg.Input = input
	cfg.Output = filepath.Join(t.TempDir(), "results")
	cfg.Prefix = "test"
	return cfg
}

func writeTrips(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(tripsCSV), 0o644))
	return path
}

// passthrough builds stages that count loader calls and keep the frame as is.
func passthrough(loads *int, cleanErr error) pipeline.Stages {
	keep := pipeline.TransformFunc(func(_ context.Context, ds *pipeline.Dataset) (*pipeline.Dataset, error) {
		return ds.With(ds.Frame()), nil
	})
	clean := keep
	if cleanErr != nil {
		clean = pipeline.TransformFunc(func(context.Context, *pipeline.Dataset) (*pipeline.Dataset, error) {
			return nil, cleanErr
		})
	}
	return pipeline.Stages{
		Loader: pipeline.LoaderFunc(func(context.Context, string) (*pipeline.Dataset, error) {
			*loads++
			return pipeline.NewDataset(dataframe.New(series.New([]int{1, 2, 3}, series.Int, "id"))), nil
		}),
		Cleaner:    clean,
		Aggregator: keep,
		Filter:     keep,
		Writer: pipeline.WriterFunc(func(context.Context, *pipeline.Dataset, string) ([]string, error) {
			return nil, nil
		}),
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := pipelineConfig(t, filepath.Join(t.TempDir(), "nope.csv"))
	var out bytes.Buffer
	loads := 0

	code := New(cfg, &out, WithStages(passthrough(&loads, nil))).Run(context.Background())

	assert.Equal(t, ExitOK, code)
	assert.Zero(t, loads)
	assert.Equal(t, "❌ Data file not found: "+cfg.Input+"\n", out.String())
	assert.NoDirExists(t, cfg.Output)
}

func TestRunStageFailure(t *testing.T) {
	cfg := pipelineConfig(t, writeTrips(t))
	var out bytes.Buffer
	loads := 0

	code := New(cfg, &out, WithStages(passthrough(&loads, errors.New("bad rows")))).Run(context.Background())

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, 1, loads)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "❌ Error during ETL benchmark: clean: bad rows", lines[len(lines)-1])
	assert.NoFileExists(t, filepath.Join(cfg.Output, "test_metrics.json"))
}

func TestRunTaxiPipeline(t *testing.T) {
	cfg := pipelineConfig(t, writeTrips(t))
	var out bytes.Buffer

	code := New(cfg, &out).Run(context.Background())
	require.Equal(t, ExitOK, code, out.String())

	text := out.String()
	assert.Contains(t, text, "STARTING GO ETL BENCHMARK")
	assert.Contains(t, text, "✅ Load: 4 rows in")
	assert.Contains(t, text, "📊 Processed: 4 rows")
	assert.Contains(t, text, "  Load Time: ")
	assert.Contains(t, text, "  Save Time: ")

	for _, name := range []string{
		"test_daily_stats.csv",
		"test_hourly_stats.csv",
		"test_dow_stats.csv",
		"test_passenger_dist.csv",
		"test_distance_analysis.csv",
		"test_longest_trips.csv",
		"test_summary.json",
		"test_metrics.json",
	} {
		assert.FileExists(t, filepath.Join(cfg.Output, name))
	}

	var metrics map[string]float64
	require.NoError(t, files.ReadJSON(filepath.Join(cfg.Output, "test_metrics.json"), &metrics))
	assert.Equal(t, 4.0, metrics["rows_loaded"])
	for _, stage := range pipeline.Order {
		assert.Contains(t, metrics, stage.MetricKey())
	}
	assert.Contains(t, metrics, "total_time")
}
