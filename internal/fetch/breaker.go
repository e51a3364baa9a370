package fetch

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while a breaker refuses fetches.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is a circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

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

// BreakerSettings configures a Breaker.
type BreakerSettings struct {
	// Failures is the number of consecutive failures that opens the breaker
	Failures int
	// Cooldown is how long the breaker stays open before allowing a probe
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes
	OnStateChange func(from, to State)
}

// Breaker stops hammering a remote host after repeated failures.
//
// It opens after Failures consecutive failures, lets a single probe through once
// Cooldown has elapsed, and closes again when that probe succeeds.
type Breaker struct {
	settings BreakerSettings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a closed breaker.
func NewBreaker(settings BreakerSettings) *Breaker {
	if settings.Failures <= 0 {
		settings.Failures = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{settings: settings, now: time.Now}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Allow reports whether a fetch may proceed. In half-open state only one probe is
// admitted until its outcome is recorded.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.current() {
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

// Success records a successful fetch.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probing = false
	b.transition(StateClosed)
}

// Failure records a failed fetch.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	switch b.current() {
	case StateHalfOpen:
		b.openedAt = b.now()
		b.transition(StateOpen)
	case StateClosed:
		b.failures++
		if b.failures >= b.settings.Failures {
			b.openedAt = b.now()
			b.transition(StateOpen)
		}
	}
}

// current moves an expired open breaker to half-open.
func (b *Breaker) current() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if to != StateClosed {
		b.failures = 0
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(from, to)
	}
}
