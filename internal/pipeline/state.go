package pipeline

// State is the position of a Runner in its stage sequence.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateCleaned
	StateAggregated
	StateFiltered
	StateSaved
	StateFailed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateCleaned:
		return "cleaned"
	case StateAggregated:
		return "aggregated"
	case StateFiltered:
		return "filtered"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further stage can run from this state.
func (s State) Terminal() bool {
	return s == StateSaved || s == StateFailed
}
