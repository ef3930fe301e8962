package taxi

import (
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the trips that survived the pipeline.
type Summary struct {
	TotalRows       int       `json:"total_rows"`
	TotalDistance   float64   `json:"total_distance"`
	AvgTripDistance float64   `json:"avg_trip_distance"`
	TotalRevenue    float64   `json:"total_revenue"`
	AvgFare         float64   `json:"avg_fare"`
	DateRange       DateRange `json:"date_range"`
}

// DateRange spans the earliest and latest pickup.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summarize computes a Summary over df. Missing values are skipped; an empty
// frame yields zeros.
func Summarize(df dataframe.DataFrame) Summary {
	s := Summary{TotalRows: df.Nrow()}
	if df.Nrow() == 0 {
		return s
	}

	if hasColumn(df, TripDistance) {
		d := finite(df.Col(TripDistance).Float())
		s.TotalDistance, s.AvgTripDistance = sumMean(d)
	}
	if hasColumn(df, TotalAmount) {
		a := finite(df.Col(TotalAmount).Float())
		s.TotalRevenue, s.AvgFare = sumMean(a)
	}
	if hasColumn(df, PickupDatetime) {
		s.DateRange = pickupRange(df)
	}
	return s
}

func sumMean(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return floats.Sum(xs), stat.Mean(xs, nil)
}

func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

func pickupRange(df dataframe.DataFrame) DateRange {
	times, ok := parseColumn(df.Col(PickupDatetime))
	var first, last time.Time
	seen := false
	for i, t := range times {
		if !ok[i] {
			continue
		}
		if !seen || t.Before(first) {
			first = t
		}
		if !seen || t.After(last) {
			last = t
		}
		seen = true
	}
	if !seen {
		return DateRange{}
	}
	return DateRange{Start: first.Format(TimestampLayout), End: last.Format(TimestampLayout)}
}
