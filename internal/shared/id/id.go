// Package id provides centralized ID generation for the benchmark.
//
// IDs are random UUIDs with a short type prefix so log lines stay readable:
//
//	run_6f0c1e4a-...   one pipeline execution
//	req_91b2d7c3-...   one HTTP request
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RunID identifies a pipeline run
type RunID string

// RequestID identifies an API request
type RequestID string

const (
	RunPrefix     = "run"
	RequestPrefix = "req"
)

// Generate creates a prefixed identifier.
func Generate(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// NewRunID generates a new pipeline run ID
func NewRunID() RunID {
	return RunID(Generate(RunPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Generate(RequestPrefix))
}

func (id RunID) String() string     { return string(id) }
func (id RequestID) String() string { return string(id) }

// IsValid checks that s is "<prefix>_<uuid>" for the given prefix.
func IsValid(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"_")
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
