package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen rejects a run while the breaker is open or probing.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Defaults used when Settings leaves a field zero.
const (
	DefaultThreshold = 3
	DefaultCooldown  = 30 * time.Second
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Threshold is the number of consecutive failures that opens the breaker
	Threshold uint32
	// Cooldown is how long the breaker stays open before a probe
	Cooldown time.Duration
	// IsFailure decides whether an error counts against the breaker.
	// The default counts every error except context.Canceled.
	IsFailure func(err error) bool
	// OnStateChange is called with the lock held whenever the state changes
	OnStateChange func(from, to State)
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	probing  bool
}

// New creates a closed breaker
func New(settings Settings) *Breaker {
	if settings.Threshold == 0 {
		settings.Threshold = DefaultThreshold
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = DefaultCooldown
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}
	}
	return &Breaker{settings: settings, now: time.Now}
}

// State returns the current state, moving Open to HalfOpen once the
// cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// Failures returns the current run of consecutive failures.
func (b *Breaker) Failures() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Do runs fn if the breaker admits it and records the outcome.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}

	ok := false
	defer func() {
		// a panicking run counts as a failure
		if !ok {
			b.record(errors.New("panic"))
		}
	}()

	err := fn(ctx)
	ok = true
	b.record(err)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := err != nil && b.settings.IsFailure(err)
	if b.state == StateHalfOpen {
		b.probing = false
		switch {
		case failed:
			b.trip()
		case err != nil:
			// an ignored error proves nothing; stay half-open for the next probe
		default:
			b.failures = 0
			b.setState(StateClosed)
		}
		return
	}

	switch {
	case err == nil:
		b.failures = 0
	case failed:
		b.failures++
		if b.failures >= b.settings.Threshold {
			b.trip()
		}
	}
}

func (b *Breaker) refresh() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.setState(StateHalfOpen)
	}
}

func (b *Breaker) trip() {
	b.openedAt = b.now()
	b.setState(StateOpen)
}

func (b *Breaker) setState(state State) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(prev, state)
	}
}
