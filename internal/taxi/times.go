package taxi

import (
	"math"
	"time"

	"github.com/go-gota/gota/series"
)

// TimestampLayout is the canonical timestamp format of the trip records.
const TimestampLayout = "2006-01-02 15:04:05"

var layouts = []string{
	TimestampLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 03:04:05 PM",
}

// parseTimestamp accepts the layouts seen in published trip files.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseColumn parses every element of a string series. Missing or
// unparsable values leave ok[i] false.
func parseColumn(s series.Series) (times []time.Time, ok []bool) {
	records := s.Records()
	nulls := s.IsNaN()
	times = make([]time.Time, len(records))
	ok = make([]bool, len(records))
	for i, r := range records {
		if nulls[i] {
			continue
		}
		times[i], ok[i] = parseTimestamp(r)
	}
	return times, ok
}

// durationsMinutes is dropoff minus pickup in minutes, NaN when either side
// cannot be parsed.
func durationsMinutes(pickup, dropoff series.Series) []float64 {
	start, okStart := parseColumn(pickup)
	end, okEnd := parseColumn(dropoff)
	out := make([]float64, len(start))
	for i := range start {
		if !okStart[i] || !okEnd[i] {
			out[i] = math.NaN()
			continue
		}
		out[i] = end[i].Sub(start[i]).Minutes()
	}
	return out
}
