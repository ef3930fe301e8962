/*
Package pipeline runs a fixed, staged ETL sequence over an in-memory dataset.

# Overview

A Runner drives five stages in strict order:

	load -> clean -> aggregate -> sort_filter -> save

Each stage is a pluggable object (Loader, Transform, Writer) that consumes the
dataset handle produced by its predecessor and returns a new one. The runner
owns the state machine, times every stage, and stops at the first failure.

# States

	Uninitialized -> Loaded -> Cleaned -> Aggregated -> Filtered -> Saved
	       any stage failure ---------------------------------> Failed

Calling a stage out of order returns ErrOutOfOrder without running anything.
After a failure every further call returns ErrPipelineFailed.

# Metrics

Elapsed time is recorded for every attempted stage, including the one that
failed. Runner.Metrics is only readable once the run reached Saved or Failed.

# Usage

	runner := pipeline.NewRunner(pipeline.Stages{
		Loader:     loader,
		Cleaner:    cleaner,
		Aggregator: aggregator,
		Filter:     filter,
		Writer:     writer,
	}, pipeline.WithLogger(logger.Logger))

	result, err := runner.Run(ctx, "data/trips.csv", "results")
*/
package pipeline
