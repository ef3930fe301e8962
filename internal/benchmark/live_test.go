package benchmark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/etlbench/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/etlbench/internal/pipeline"
)

const tripsHeader = "VendorID,tpep_pickup_datetime,tpep_dropoff_datetime,passenger_count,trip_distance," +
	"pickup_longitude,pickup_latitude,RateCodeID,store_and_fwd_flag,dropoff_longitude,dropoff_latitude," +
	"payment_type,fare_amount,extra,mta_tax,tip_amount,tolls_amount,improvement_surcharge,total_amount"

var tripRows = []string{
	"2,2015-01-15 19:05:39,2015-01-15 19:23:42,1,1.59,-73.99,40.75,1,N,-73.97,40.75,1,12,1,0.5,3.25,0,0.3,17.05",
	"1,2015-01-10 20:33:38,2015-01-10 20:53:28,1,3.30,-74.00,40.72,1,N,-73.97,40.75,1,14.5,0.5,0.5,2,0,0.3,17.8",
	"1,2015-01-10 20:33:38,2015-01-10 20:43:41,1,1.80,-73.96,40.80,1,N,-73.94,40.84,2,9.5,0.5,0.5,0,0,0.3,10.8",
	"1,2015-01-10 20:33:39,2015-01-10 20:35:31,1,0.50,-74.01,40.71,1,N,-74.00,40.72,2,3.5,0.5,0.5,0,0,0.3,4.8",
	"1,2015-01-10 20:33:39,2015-01-10 20:52:58,2,12.00,-73.97,40.76,1,N,-73.77,40.64,2,35,0.5,0.5,0,5.33,0.3,41.63",
}

func writeInput(t *testing.T, rows []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	body := tripsHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func liveConfig(input string) LiveConfig {
	return LiveConfig{
		Input:          input,
		Prefix:         "live",
		RequestTimeout: 30 * time.Second,
		CacheTTL:       time.Hour,
	}
}

func TestLiveRunsPipeline(t *testing.T) {
	live := NewLive(liveConfig(writeInput(t, tripRows)))
	defer live.Close()

	res, err := live.Benchmark(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, ModeLive, res.Mode)
	assert.Equal(t, 3, res.SampleSize)
	assert.Equal(t, 3.0, res.Metrics["rows_processed"])
	assert.Equal(t, int64(3), res.DatasetInfo.Rows)
	assert.Equal(t, 19, res.DatasetInfo.Columns)
	assert.Equal(t, "trips.csv", res.DatasetInfo.Name)
	for _, key := range []string{"load_time", "clean_time", "aggregate_time", "sort_filter_time", "save_time", "total_time"} {
		assert.Contains(t, res.Metrics, key)
	}
	assert.False(t, res.Cached)

	again, err := live.Benchmark(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, res.RunID, again.RunID)

	full, err := live.Benchmark(context.Background(), 10)
	require.NoError(t, err)
	assert.NotEqual(t, res.RunID, full.RunID)
	assert.Equal(t, 5.0, full.Metrics["rows_processed"])
	assert.Equal(t, 1.0, full.Metrics["long_trips_count"])
}

func TestLiveInvalidatesOnFileChange(t *testing.T) {
	input := writeInput(t, tripRows[:2])
	live := NewLive(liveConfig(input))
	defer live.Close()

	first, err := live.Benchmark(context.Background(), 10)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(input, []byte(tripsHeader+"\n"+strings.Join(tripRows, "\n")+"\n"), 0o644))
	second, err := live.Benchmark(context.Background(), 10)
	require.NoError(t, err)

	assert.False(t, second.Cached)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 5.0, second.Metrics["rows_processed"])
}

func TestLiveMissingInput(t *testing.T) {
	live := NewLive(liveConfig(filepath.Join(t.TempDir(), "absent.csv")))
	_, err := live.Benchmark(context.Background(), 10)
	assert.ErrorIs(t, err, pipeline.ErrFileNotFound)
}

func frameStages(load func(ctx context.Context) error, clean pipeline.Transform) StageFactory {
	return func(int) pipeline.Stages {
		return pipeline.Stages{
			Loader: pipeline.LoaderFunc(func(ctx context.Context, _ string) (*pipeline.Dataset, error) {
				if err := load(ctx); err != nil {
					return nil, err
				}
				return pipeline.NewDataset(dataframe.New(series.New([]int{1, 2, 3}, series.Int, "id"))), nil
			}),
			Cleaner:    clean,
			Aggregator: pipeline.Passthrough,
			Filter:     pipeline.Passthrough,
			Writer: pipeline.WriterFunc(func(context.Context, *pipeline.Dataset, string) ([]string, error) {
				return nil, nil
			}),
		}
	}
}

func TestLiveCollapsesConcurrentRequests(t *testing.T) {
	var runs atomic.Int32
	release := make(chan struct{})
	metrics := monitoring.NewMetrics()

	live := NewLive(liveConfig(writeInput(t, tripRows)),
		WithMetrics(metrics),
		WithStages(frameStages(func(context.Context) error {
			runs.Add(1)
			<-release
			return nil
		}, pipeline.Passthrough)),
	)
	defer live.Close()

	const callers = 5
	results := make([]*Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := live.Benchmark(context.Background(), 100)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.CacheMisses) == callers
	}, 5*time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, results[0].RunID, res.RunID)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(ModeLive, "success")))
}

func TestLiveStageFailureIsNotCached(t *testing.T) {
	var runs atomic.Int32
	boom := errors.New("bad rows")
	live := NewLive(liveConfig(writeInput(t, tripRows)),
		WithStages(frameStages(func(context.Context) error {
			runs.Add(1)
			return nil
		}, pipeline.TransformFunc(func(context.Context, *pipeline.Dataset) (*pipeline.Dataset, error) {
			return nil, boom
		}))),
	)
	defer live.Close()

	for i := 0; i < 2; i++ {
		_, err := live.Benchmark(context.Background(), 10)
		require.Error(t, err)
		stage, ok := pipeline.FailedStage(err)
		require.True(t, ok)
		assert.Equal(t, pipeline.StageClean, stage)
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, int32(2), runs.Load())
}

func TestLiveRequestTimeout(t *testing.T) {
	cfg := liveConfig(writeInput(t, tripRows))
	cfg.RequestTimeout = 20 * time.Millisecond
	live := NewLive(cfg, WithStages(frameStages(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, pipeline.Passthrough)))
	defer live.Close()

	_, err := live.Benchmark(context.Background(), 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLiveCloseClearsCache(t *testing.T) {
	live := NewLive(liveConfig(writeInput(t, tripRows)),
		WithStages(frameStages(func(context.Context) error { return nil }, pipeline.Passthrough)))

	first, err := live.Benchmark(context.Background(), 10)
	require.NoError(t, err)
	require.NoError(t, live.Close())

	second, err := live.Benchmark(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestLiveLogsCacheMiss(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	live := NewLive(liveConfig(writeInput(t, tripRows)),
		WithStages(frameStages(func(context.Context) error { return nil }, pipeline.Passthrough)),
		WithLogger(zap.New(core)))
	defer live.Close()

	_, err := live.Benchmark(context.Background(), 10)
	require.NoError(t, err)
	_, err = live.Benchmark(context.Background(), 10)
	require.NoError(t, err)

	misses := logs.FilterMessage("Live benchmark cache miss").All()
	require.Len(t, misses, 1)
	key := misses[0].ContextMap()["key"]
	assert.Len(t, key, 8)
	assert.EqualValues(t, 10, misses[0].ContextMap()["sample_size"])
}

func TestLiveCircuitBreakerOpens(t *testing.T) {
	var runs atomic.Int32
	cfg := liveConfig(writeInput(t, tripRows))
	cfg.BreakerThreshold = 2
	cfg.BreakerCooldown = time.Hour
	live := NewLive(cfg,
		WithStages(frameStages(func(context.Context) error {
			runs.Add(1)
			return nil
		}, pipeline.TransformFunc(func(context.Context, *pipeline.Dataset) (*pipeline.Dataset, error) {
			return nil, errors.New("bad rows")
		}))),
	)
	defer live.Close()

	for i := 0; i < 2; i++ {
		_, err := live.Benchmark(context.Background(), 10)
		_, ok := pipeline.FailedStage(err)
		require.True(t, ok)
	}

	_, err := live.Benchmark(context.Background(), 10)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), runs.Load())
}
