package taxi

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
)

// TableLongest holds the longest trips after sorting.
const TableLongest = "longest_trips"

// DefaultTopN is the size of the longest trips table.
const DefaultTopN = 10

// Thresholds for the trip categories counted by SortFilter
const (
	LongTripMiles        = 10.0
	ExpensiveTripDollars = 50.0
	PremiumTripMiles     = 5.0
	PremiumTripDollars   = 30.0
	PremiumMinPassengers = 2
)

// RushHours are the pickup hours counted as rush hour.
var RushHours = []int{7, 8, 9, 17, 18, 19}

// WeekendDays are the day_of_week values counted as weekend.
var WeekendDays = []string{"Saturday", "Sunday"}

var longestColumns = []string{
	PickupDatetime, DropoffDatetime, PassengerCount, TripDistance,
	TripDurationMinutes, FareAmount, TotalAmount,
}

// SortFilter orders trips by distance, longest first, and counts trip
// categories. Rush hour and weekend counts need the Aggregator's derived
// columns and are skipped without them.
type SortFilter struct {
	TopN int
}

type category struct {
	count   string
	needs   string
	filters []dataframe.F
}

var categories = []category{
	{
		count:   "long_trips_count",
		filters: []dataframe.F{{Colname: TripDistance, Comparator: series.Greater, Comparando: LongTripMiles}},
	},
	{
		count:   "expensive_trips_count",
		filters: []dataframe.F{{Colname: TotalAmount, Comparator: series.Greater, Comparando: ExpensiveTripDollars}},
	},
	{
		count:   "rush_hour_trips_count",
		needs:   Hour,
		filters: []dataframe.F{{Colname: Hour, Comparator: series.In, Comparando: RushHours}},
	},
	{
		count:   "weekend_trips_count",
		needs:   DayOfWeek,
		filters: []dataframe.F{{Colname: DayOfWeek, Comparator: series.In, Comparando: WeekendDays}},
	},
	{
		count: "premium_trips_count",
		filters: []dataframe.F{
			{Colname: TripDistance, Comparator: series.Greater, Comparando: PremiumTripMiles},
			{Colname: TotalAmount, Comparator: series.Greater, Comparando: PremiumTripDollars},
			{Colname: PassengerCount, Comparator: series.GreaterEq, Comparando: PremiumMinPassengers},
		},
	},
}

// Apply implements pipeline.Transform.
func (s SortFilter) Apply(ctx context.Context, ds *pipeline.Dataset) (*pipeline.Dataset, error) {
	df := ds.Frame()
	if err := requireColumns(df, TripDistance, TotalAmount, PassengerCount); err != nil {
		return nil, err
	}

	sorted := df.Arrange(dataframe.RevSort(TripDistance))
	if sorted.Err != nil {
		return nil, fmt.Errorf("sort by %s: %w", TripDistance, sorted.Err)
	}

	out := ds.With(sorted)
	for _, c := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.needs != "" && !ds.HasColumn(c.needs) {
			continue
		}
		matched := sorted.FilterAggregation(dataframe.And, c.filters...)
		if matched.Err != nil {
			return nil, fmt.Errorf("%s: %w", c.count, matched.Err)
		}
		out.SetCount(c.count, float64(matched.Nrow()))
	}

	out.SetTable(TableLongest, s.longest(sorted))
	return out, nil
}

func (s SortFilter) longest(sorted dataframe.DataFrame) dataframe.DataFrame {
	n := s.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	if n > sorted.Nrow() {
		n = sorted.Nrow()
	}

	top := sorted
	if n > 0 && n < sorted.Nrow() {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		top = sorted.Subset(idx)
	}
	return top.Select(present(top, longestColumns...))
}
