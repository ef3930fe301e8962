package taxi

import (
	"context"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
	"github.com/GriffinCanCode/etlbench/internal/shared/files"
)

type trip struct {
	pickup     string
	dropoff    string
	passengers int
	distance   float64
	total      float64
	lon, lat   float64
	start      time.Time
}

// sampleTrips builds n trips over 2015-01-01..03. Every tenth trip has a
// missing pickup timestamp and is dropped by the cleaner.
func sampleTrips(n int) []trip {
	out := make([]trip, n)
	for i := range out {
		start := time.Date(2015, 1, 1+i%3, i%24, i%60, 0, 0, time.UTC)
		end := start.Add(time.Duration(5+i%20) * time.Minute)
		distance := 0.5 + float64(i%12)
		out[i] = trip{
			pickup:     start.Format(TimestampLayout),
			dropoff:    end.Format(TimestampLayout),
			passengers: 1 + i%4,
			distance:   distance,
			total:      4 + distance*5,
			lon:        -73.98,
			lat:        40.75,
			start:      start,
		}
		if i%10 == 0 {
			out[i].pickup = ""
		}
	}
	return out
}

func validTrips(trips []trip) []trip {
	var out []trip
	for _, tr := range trips {
		if tr.pickup != "" {
			out = append(out, tr)
		}
	}
	return out
}

func countTrips(trips []trip, keep func(trip) bool) float64 {
	n := 0
	for _, tr := range trips {
		if keep(tr) {
			n++
		}
	}
	return float64(n)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeTrips writes trips in the 19 column schema and returns the path.
func writeTrips(t *testing.T, dir, name string, trips []trip) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := files.Create(path, filepath.Ext(name) == ".gz")
	require.NoError(t, err)

	cw := csv.NewWriter(w)
	require.NoError(t, cw.Write(Columns))
	for _, tr := range trips {
		fare := tr.total - 1.3
		require.NoError(t, cw.Write([]string{
			"2", tr.pickup, tr.dropoff, strconv.Itoa(tr.passengers), formatFloat(tr.distance),
			formatFloat(tr.lon), formatFloat(tr.lat), "1", "N",
			formatFloat(tr.lon), formatFloat(tr.lat), "1", formatFloat(fare),
			"0.5", "0.5", "0", "0", "0.3", formatFloat(tr.total),
		}))
	}
	cw.Flush()
	require.NoError(t, cw.Error())
	require.NoError(t, w.Close())
	return path
}

func loadTrips(t *testing.T, trips []trip) *pipeline.Dataset {
	t.Helper()
	path := writeTrips(t, t.TempDir(), "trips.csv", trips)
	ds, err := Loader{}.Load(context.Background(), path)
	require.NoError(t, err)
	return ds
}

// through runs the given transforms in order.
func through(t *testing.T, ds *pipeline.Dataset, transforms ...pipeline.Transform) *pipeline.Dataset {
	t.Helper()
	for _, tr := range transforms {
		var err error
		ds, err = tr.Apply(context.Background(), ds)
		require.NoError(t, err)
	}
	return ds
}

func timeOf(t *testing.T, s string) time.Time {
	t.Helper()
	ts, ok := parseTimestamp(s)
	require.True(t, ok, s)
	return ts
}
