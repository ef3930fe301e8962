// Package taxi implements the ETL stages for NYC yellow taxi trip records
// (January 2015 schema, 19 columns).
//
// # Stages
//
//	Loader      CSV or CSV.gz → dataframe, optional row limit
//	Cleaner     drops trips with zero coordinates, implausible distance,
//	            passenger count or duration; derives trip_duration_minutes
//	Aggregator  derives date, hour, day_of_week, distance_bin and builds
//	            daily, hourly, day-of-week, passenger and distance tables
//	SortFilter  sorts by distance and counts long, expensive, rush-hour,
//	            weekend and premium trips
//	Writer      writes every table as CSV plus a JSON summary
//
// All dataframe work is delegated to gota; the stages only compose its
// filter, group-by, sort and mutate calls.
//
// # Usage
//
//	stages := taxi.NewStages(taxi.Options{Prefix: "go"})
//	runner := pipeline.NewRunner(stages)
//	res, err := runner.Run(ctx, "trips.csv", "results")
package taxi
