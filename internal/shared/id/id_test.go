package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	id1 := Generate("x")
	id2 := Generate("x")

	assert.NotEqual(t, id1, id2)
	assert.True(t, strings.HasPrefix(id1, "x_"))
}

func TestTypedIDs(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		prefix string
	}{
		{"run", NewRunID().String(), RunPrefix},
		{"request", NewRequestID().String(), RequestPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsValid(tt.value, tt.prefix), "got %s", tt.value)
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid("run_not-a-uuid", RunPrefix))
	assert.False(t, IsValid(NewRunID().String(), RequestPrefix))
	assert.False(t, IsValid("", RunPrefix))
}

func TestConcurrentGeneration(t *testing.T) {
	const workers = 8
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[RunID]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				runID := NewRunID()
				mu.Lock()
				seen[runID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
