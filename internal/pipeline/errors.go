package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound    = errors.New("input file not found")
	ErrOutOfOrder      = errors.New("stage called out of order")
	ErrPipelineFailed  = errors.New("pipeline already failed")
	ErrMetricsNotReady = errors.New("metrics are only readable after the pipeline saved or failed")
	ErrStageMissing    = errors.New("stage not configured")
)

// StageError tags a stage failure with the stage that produced it.
// The cause is kept as-is and reachable through errors.Is / errors.As.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure while persisting results during save.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage name carried by err, if any.
func FailedStage(err error) (StageName, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
