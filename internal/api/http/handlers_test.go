package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/etlbench/internal/benchmark"
	"github.com/GriffinCanCode/etlbench/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/etlbench/internal/pipeline"
)

func setupRouter(p benchmark.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandlers(p, nil).Register(router)
	return router
}

func get(t *testing.T, router *gin.Engine, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestBenchmarkDemo(t *testing.T) {
	router := setupRouter(benchmark.Demo{})

	tests := []string{
		"/benchmark",
		"/benchmark?sample_size=1000",
		"/benchmark?sample_size=not-a-number",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			w, body := get(t, router, target)

			assert.Equal(t, http.StatusOK, w.Code)
			metrics, ok := body["metrics"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, 12748986.0, metrics["rows_processed"])
			assert.Equal(t, benchmark.ModeDemo, body["mode"])
			assert.NotContains(t, body, "sample_size")

			info := body["dataset_info"].(map[string]interface{})
			assert.Equal(t, 19.0, info["columns"])
		})
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(benchmark.Demo{})

	for _, target := range []string{"/", "/health"} {
		w, body := get(t, router, target)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, benchmark.Version, body["version"])
		assert.NotEmpty(t, body["endpoints"])
	}
}

func TestInfo(t *testing.T) {
	w, body := get(t, setupRouter(benchmark.Demo{}), "/info")

	assert.Equal(t, http.StatusOK, w.Code)
	info := body["benchmark_info"].(map[string]interface{})
	assert.Equal(t, benchmark.DatasetName, info["dataset"])
	assert.Contains(t, body, "performance_advantages")
	assert.Contains(t, body, "deployment")
}

type stubProvider struct {
	res  *benchmark.Result
	err  error
	seen []int
}

func (s *stubProvider) Mode() string { return benchmark.ModeLive }
func (s *stubProvider) Close() error { return nil }

func (s *stubProvider) Benchmark(_ context.Context, n int) (*benchmark.Result, error) {
	s.seen = append(s.seen, n)
	return s.res, s.err
}

func TestBenchmarkLiveSampleSize(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSample int
	}{
		{"default", "", http.StatusOK, 10000},
		{"explicit", "?sample_size=250", http.StatusOK, 250},
		{"zero", "?sample_size=0", http.StatusBadRequest, 0},
		{"negative", "?sample_size=-1", http.StatusBadRequest, 0},
		{"not a number", "?sample_size=lots", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProvider{res: &benchmark.Result{Mode: benchmark.ModeLive}}
			w, body := get(t, setupRouter(stub), "/benchmark"+tt.query)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, []int{tt.wantSample}, stub.seen)
			} else {
				assert.Empty(t, stub.seen)
				assert.Contains(t, body["error"], "sample_size")
			}
		})
	}
}

func TestBenchmarkLiveErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantStage  string
	}{
		{
			name:       "missing input",
			err:        fmt.Errorf("%w: trips.csv", pipeline.ErrFileNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "stage failure",
			err:        &pipeline.StageError{Stage: pipeline.StageAggregate, Err: errors.New("bad column")},
			wantStatus: http.StatusInternalServerError,
			wantStage:  "aggregate",
		},
		{
			name:       "stage timeout",
			err:        &pipeline.StageError{Stage: pipeline.StageLoad, Err: context.DeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
			wantStage:  "load",
		},
		{
			name:       "breaker open",
			err:        resilience.ErrCircuitOpen,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := get(t, setupRouter(&stubProvider{err: tt.err}), "/benchmark?sample_size=5")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.err.Error(), body["error"])
			if tt.wantStage != "" {
				assert.Equal(t, tt.wantStage, body["stage"])
			} else {
				assert.NotContains(t, body, "stage")
			}
		})
	}
}
