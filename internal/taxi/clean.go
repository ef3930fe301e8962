package taxi

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
)

// Cleaning defaults
const (
	DefaultMaxDistance        = 100.0
	DefaultMaxPassengers      = 6
	DefaultMaxDurationMinutes = 480.0
)

// Cleaner drops implausible trips. A trip survives when all four
// coordinates are non-zero, 0 < distance < MaxDistance,
// 0 < passengers <= MaxPassengers, both timestamps parse and
// 0 < duration < MaxDurationMinutes.
type Cleaner struct {
	MaxDistance        float64
	MaxPassengers      int
	MaxDurationMinutes float64
}

// DefaultCleaner returns a Cleaner with the default thresholds
func DefaultCleaner() Cleaner {
	return Cleaner{
		MaxDistance:        DefaultMaxDistance,
		MaxPassengers:      DefaultMaxPassengers,
		MaxDurationMinutes: DefaultMaxDurationMinutes,
	}
}

// Apply implements pipeline.Transform.
func (c Cleaner) Apply(ctx context.Context, ds *pipeline.Dataset) (*pipeline.Dataset, error) {
	df := ds.Frame()
	if err := requireColumns(df, RequiredColumns...); err != nil {
		return nil, err
	}
	initial := df.Nrow()

	df = df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: PickupLongitude, Comparator: series.Neq, Comparando: 0.0},
		dataframe.F{Colname: PickupLatitude, Comparator: series.Neq, Comparando: 0.0},
		dataframe.F{Colname: DropoffLongitude, Comparator: series.Neq, Comparando: 0.0},
		dataframe.F{Colname: DropoffLatitude, Comparator: series.Neq, Comparando: 0.0},
		dataframe.F{Colname: TripDistance, Comparator: series.Greater, Comparando: 0.0},
		dataframe.F{Colname: TripDistance, Comparator: series.Less, Comparando: c.MaxDistance},
		dataframe.F{Colname: PassengerCount, Comparator: series.Greater, Comparando: 0.0},
		dataframe.F{Colname: PassengerCount, Comparator: series.LessEq, Comparando: float64(c.MaxPassengers)},
	)
	if df.Err != nil {
		return nil, fmt.Errorf("filter invalid trips: %w", df.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	durations := durationsMinutes(df.Col(PickupDatetime), df.Col(DropoffDatetime))
	df = df.Mutate(series.New(durations, series.Float, TripDurationMinutes))
	df = df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: TripDurationMinutes, Comparator: series.Greater, Comparando: 0.0},
		dataframe.F{Colname: TripDurationMinutes, Comparator: series.Less, Comparando: c.MaxDurationMinutes},
	)
	if df.Err != nil {
		return nil, fmt.Errorf("filter invalid durations: %w", df.Err)
	}

	// every remaining passenger count is a small whole number
	df = df.Mutate(series.New(wholeNumbers(df.Col(PassengerCount).Float()), series.Int, PassengerCount))
	if df.Err != nil {
		return nil, fmt.Errorf("convert passenger counts: %w", df.Err)
	}

	out := ds.With(df)
	out.SetCount("rows_after_cleaning", float64(df.Nrow()))
	out.SetCount("rows_removed", float64(initial-df.Nrow()))
	return out, nil
}

func wholeNumbers(xs []float64) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(math.Round(x))
	}
	return out
}
