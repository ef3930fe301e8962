package taxi

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/GriffinCanCode/etlbench/internal/pipeline"
)

// Table names produced by the Aggregator
const (
	TableDaily     = "daily_stats"
	TableHourly    = "hourly_stats"
	TableDayOfWeek = "dow_stats"
	TablePassenger = "passenger_dist"
	TableDistance  = "distance_analysis"
)

// distanceBins are right-inclusive: (Low, High].
var distanceBins = []struct {
	Low, High float64
	Label     string
}{
	{0, 1, "Short (0-1mi)"},
	{1, 3, "Medium (1-3mi)"},
	{3, 5, "Long (3-5mi)"},
	{5, 10, "Very Long (5-10mi)"},
	{10, 100, "Extreme (10+mi)"},
}

// UnbinnedLabel marks distances outside every bin.
const UnbinnedLabel = "Unbinned"

var aggSuffix = map[dataframe.AggregationType]string{
	dataframe.Aggregation_COUNT: "count",
	dataframe.Aggregation_MEAN:  "mean",
	dataframe.Aggregation_SUM:   "sum",
	dataframe.Aggregation_STD:   "std",
	dataframe.Aggregation_MIN:   "min",
	dataframe.Aggregation_MAX:   "max",
}

type measure struct {
	column string
	kinds  []dataframe.AggregationType
}

type rename struct{ from, to string }

// groupSpec describes one aggregation table.
type groupSpec struct {
	name     string
	keys     []string
	measures []measure
	sortBy   string
	drop     []string
	renames  []rename
}

const (
	aggCount = dataframe.Aggregation_COUNT
	aggMean  = dataframe.Aggregation_MEAN
	aggSum   = dataframe.Aggregation_SUM
	aggStd   = dataframe.Aggregation_STD
)

var groupSpecs = []groupSpec{
	{
		name: TableDaily,
		keys: []string{Date},
		measures: []measure{
			{TripDistance, []dataframe.AggregationType{aggCount, aggMean, aggSum, aggStd}},
			{TripDurationMinutes, []dataframe.AggregationType{aggMean, aggSum}},
			{PassengerCount, []dataframe.AggregationType{aggSum, aggMean}},
			{TotalAmount, []dataframe.AggregationType{aggMean, aggSum, aggStd}},
		},
		sortBy: Date,
	},
	{
		name: TableHourly,
		keys: []string{Hour},
		measures: []measure{
			{TripDistance, []dataframe.AggregationType{aggCount, aggMean}},
			{TripDurationMinutes, []dataframe.AggregationType{aggMean}},
			{TotalAmount, []dataframe.AggregationType{aggMean}},
			{PassengerCount, []dataframe.AggregationType{aggMean}},
		},
		sortBy: Hour,
	},
	{
		name: TableDayOfWeek,
		keys: []string{DayOfWeek},
		measures: []measure{
			{TripDistance, []dataframe.AggregationType{aggCount, aggMean}},
			{TotalAmount, []dataframe.AggregationType{aggMean}},
		},
		sortBy: DayOfWeek,
	},
	{
		name: TablePassenger,
		keys: []string{PassengerCount},
		measures: []measure{
			{TripDistance, []dataframe.AggregationType{aggCount}},
		},
		sortBy:  PassengerCount,
		renames: []rename{{TripDistance + "_count", "count"}},
	},
	{
		name: TableDistance,
		keys: []string{DistanceBin, distanceBinOrder},
		measures: []measure{
			{TripDistance, []dataframe.AggregationType{aggCount}},
			{TotalAmount, []dataframe.AggregationType{aggMean}},
			{TripDurationMinutes, []dataframe.AggregationType{aggMean}},
		},
		sortBy: distanceBinOrder,
		drop:   []string{distanceBinOrder},
	},
}

// Aggregator derives calendar and distance columns and builds the summary
// tables as side tables of the dataset.
type Aggregator struct{}

// Apply implements pipeline.Transform.
func (Aggregator) Apply(ctx context.Context, ds *pipeline.Dataset) (*pipeline.Dataset, error) {
	df := ds.Frame()
	if err := requireColumns(df, PickupDatetime, TripDistance, TripDurationMinutes, PassengerCount, TotalAmount); err != nil {
		return nil, err
	}

	df = withCalendarColumns(df)
	df = withDistanceBins(df)
	if df.Err != nil {
		return nil, fmt.Errorf("derive columns: %w", df.Err)
	}

	out := ds.With(df)
	for _, spec := range groupSpecs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := spec.build(df)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.name, err)
		}
		out.SetTable(spec.name, table)
	}

	daily, _ := out.Table(TableDaily)
	out.SetCount("days_covered", float64(daily.Nrow()))
	return out, nil
}

func withCalendarColumns(df dataframe.DataFrame) dataframe.DataFrame {
	pickups, ok := parseColumn(df.Col(PickupDatetime))
	dates := make([]string, len(pickups))
	hours := make([]int, len(pickups))
	days := make([]string, len(pickups))
	for i, t := range pickups {
		if !ok[i] {
			dates[i], days[i], hours[i] = "unknown", "unknown", -1
			continue
		}
		dates[i] = t.Format("2006-01-02")
		hours[i] = t.Hour()
		days[i] = t.Weekday().String()
	}
	return df.
		Mutate(series.New(dates, series.String, Date)).
		Mutate(series.New(hours, series.Int, Hour)).
		Mutate(series.New(days, series.String, DayOfWeek))
}

func withDistanceBins(df dataframe.DataFrame) dataframe.DataFrame {
	distances := df.Col(TripDistance).Float()
	labels := make([]string, len(distances))
	order := make([]int, len(distances))
	for i, d := range distances {
		labels[i], order[i] = binFor(d)
	}
	return df.
		Mutate(series.New(labels, series.String, DistanceBin)).
		Mutate(series.New(order, series.Int, distanceBinOrder))
}

func binFor(d float64) (string, int) {
	for i, b := range distanceBins {
		if d > b.Low && d <= b.High {
			return b.Label, i
		}
	}
	return UnbinnedLabel, len(distanceBins)
}

// build groups df by g.keys. Column names follow
// <column>_<aggregation> in lower case.
func (g groupSpec) build(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	var (
		kinds  []dataframe.AggregationType
		cols   []string
		raw    []string
		output []string
	)
	for _, m := range g.measures {
		for _, k := range m.kinds {
			kinds = append(kinds, k)
			cols = append(cols, m.column)
			raw = append(raw, fmt.Sprintf("%s_%s", m.column, k))
			output = append(output, m.column+"_"+aggSuffix[k])
		}
	}

	if df.Nrow() == 0 {
		return g.finish(emptyTable(df, g.keys, output))
	}

	groups := df.GroupBy(g.keys...)
	if groups.Err != nil {
		return dataframe.DataFrame{}, groups.Err
	}
	agg := groups.Aggregation(kinds, cols)
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}

	agg = agg.Select(append(append([]string{}, g.keys...), raw...))
	for i := range raw {
		if raw[i] != output[i] {
			agg = agg.Rename(output[i], raw[i])
		}
	}
	return g.finish(agg)
}

func (g groupSpec) finish(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	df = df.Arrange(dataframe.Sort(g.sortBy))
	for _, r := range g.renames {
		df = df.Rename(r.to, r.from)
	}
	if len(g.drop) > 0 {
		df = df.Drop(g.drop)
	}
	return df, df.Err
}

func emptyTable(src dataframe.DataFrame, keys, measures []string) dataframe.DataFrame {
	cols := make([]series.Series, 0, len(keys)+len(measures))
	for _, k := range keys {
		cols = append(cols, series.New([]string{}, src.Col(k).Type(), k))
	}
	for _, m := range measures {
		cols = append(cols, series.New([]float64{}, series.Float, m))
	}
	return dataframe.New(cols...)
}
