package taxi

import "github.com/GriffinCanCode/etlbench/internal/pipeline"

// Options configures the taxi stages. Zero values select defaults.
type Options struct {
	Limit        int
	Prefix       string
	Compress     bool
	WriteDataset bool
	TopN         int
	Cleaner      Cleaner
}

// NewStages wires the taxi stages for a pipeline.Runner.
func NewStages(opts Options) pipeline.Stages {
	cleaner := opts.Cleaner
	defaults := DefaultCleaner()
	if cleaner.MaxDistance <= 0 {
		cleaner.MaxDistance = defaults.MaxDistance
	}
	if cleaner.MaxPassengers <= 0 {
		cleaner.MaxPassengers = defaults.MaxPassengers
	}
	if cleaner.MaxDurationMinutes <= 0 {
		cleaner.MaxDurationMinutes = defaults.MaxDurationMinutes
	}

	return pipeline.Stages{
		Loader:     Loader{Limit: opts.Limit},
		Cleaner:    cleaner,
		Aggregator: Aggregator{},
		Filter:     SortFilter{TopN: opts.TopN},
		Writer: Writer{
			Prefix:       opts.Prefix,
			Compress:     opts.Compress,
			WriteDataset: opts.WriteDataset,
		},
	}
}
