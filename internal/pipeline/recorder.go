package pipeline

import (
	"sync"
	"time"
)

// StageMetric is the elapsed time of one attempted stage.
type StageMetric struct {
	Stage   StageName `json:"stage"`
	Seconds float64   `json:"seconds"`
}

// Recorder accumulates stage timings and derived counts for a single run.
type Recorder struct {
	mu         sync.RWMutex
	timings    []StageMetric
	counts     map[string]float64
	countOrder []string
	total      time.Duration
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		counts: make(map[string]float64),
	}
}

// RecordStage stores the elapsed time for a stage. Negative durations are
// clamped to zero; a repeated stage name overwrites the earlier entry.
func (r *Recorder) RecordStage(stage StageName, d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.timings {
		if r.timings[i].Stage == stage {
			r.timings[i].Seconds = d.Seconds()
			return
		}
	}
	r.timings = append(r.timings, StageMetric{Stage: stage, Seconds: d.Seconds()})
}

// SetTotal stores the wall time of the whole run.
func (r *Recorder) SetTotal(d time.Duration) {
	r.mu.Lock()
	r.total = d
	r.mu.Unlock()
}

// SetCount stores a derived scalar.
func (r *Recorder) SetCount(name string, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.counts[name]; !ok {
		r.countOrder = append(r.countOrder, name)
	}
	r.counts[name] = v
}

// Seconds returns the recorded elapsed seconds for a stage.
func (r *Recorder) Seconds(stage StageName) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.timings {
		if m.Stage == stage {
			return m.Seconds, true
		}
	}
	return 0, false
}

// Count returns a derived scalar by name.
func (r *Recorder) Count(name string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.counts[name]
	return v, ok
}

// Snapshot copies the current state into an immutable value.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Timings:      make([]StageMetric, len(r.timings)),
		Counts:       make(map[string]float64, len(r.counts)),
		CountOrder:   make([]string, len(r.countOrder)),
		TotalSeconds: r.total.Seconds(),
	}
	copy(s.Timings, r.timings)
	copy(s.CountOrder, r.countOrder)
	for k, v := range r.counts {
		s.Counts[k] = v
	}
	return s
}

// Snapshot is a read-only copy of a Recorder.
type Snapshot struct {
	Timings      []StageMetric
	Counts       map[string]float64
	CountOrder   []string
	TotalSeconds float64
}

// Seconds returns the elapsed seconds of a stage in the snapshot.
func (s Snapshot) Seconds(stage StageName) (float64, bool) {
	for _, m := range s.Timings {
		if m.Stage == stage {
			return m.Seconds, true
		}
	}
	return 0, false
}

// Flatten returns the snapshot as one flat map: "<stage>_time" keys, the
// derived counts, and "total_time".
func (s Snapshot) Flatten() map[string]float64 {
	out := make(map[string]float64, len(s.Timings)+len(s.Counts)+1)
	for _, m := range s.Timings {
		out[m.Stage.MetricKey()] = m.Seconds
	}
	for k, v := range s.Counts {
		out[k] = v
	}
	out["total_time"] = s.TotalSeconds
	return out
}
