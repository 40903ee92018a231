// Package breaker implements a small circuit breaker for backends that
// talk to remote services.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen reports a call rejected because the breaker is not admitting
// requests.
var ErrOpen = errors.New("breaker: open")

// State is the breaker's admission state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state.
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

// Config tunes when the breaker trips and recovers.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
	// ProbeCount is both the number of concurrent probes allowed while
	// half-open and the consecutive successes required to close.
	ProbeCount int
	// OnChange, if set, is called after every state transition.
	OnChange func(name string, from, to State)
}

// Breaker guards calls to one remote dependency. After too many
// consecutive failures it rejects calls outright, then lets a few probe
// requests through once the cooldown has passed.
type Breaker struct {
	name string
	cfg  Config

	mu        sync.Mutex
	state     State
	epoch     uint64 // bumped on every transition; stale reports are dropped
	failures  int
	successes int
	inflight  int
	openedAt  time.Time
}

// New creates a breaker with the given settings. Zero values fall back
// to five failures, a thirty second cooldown, and one probe.
func New(name string, cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.ProbeCount <= 0 {
		cfg.ProbeCount = 1
	}
	return &Breaker{name: name, cfg: cfg, state: StateClosed}
}

// Name returns the breaker's name.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current admission state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh(time.Now())
	return b.state
}

// Do runs fn if the breaker admits it and records the outcome. A panic
// in fn counts as a failure before it propagates.
func (b *Breaker) Do(fn func() error) error {
	epoch, err := b.admit()
	if err != nil {
		return err
	}
	ok := false
	defer func() {
		b.report(epoch, ok)
	}()
	err = fn()
	ok = err == nil
	return err
}

// admit decides whether a call may proceed, returning the epoch the
// decision was made in.
func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh(time.Now())

	switch b.state {
	case StateOpen:
		return b.epoch, ErrOpen
	case StateHalfOpen:
		if b.inflight >= b.cfg.ProbeCount {
			return b.epoch, ErrOpen
		}
		b.inflight++
	}
	return b.epoch, nil
}

// report records a call outcome. Reports from an earlier epoch are
// ignored; the state that admitted them no longer exists.
func (b *Breaker) report(epoch uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if epoch != b.epoch {
		return
	}

	switch b.state {
	case StateClosed:
		if ok {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen, time.Now())
		}
	case StateHalfOpen:
		b.inflight--
		if !ok {
			b.transition(StateOpen, time.Now())
			return
		}
		b.successes++
		if b.successes >= b.cfg.ProbeCount {
			b.transition(StateClosed, time.Now())
		}
	}
}

// refresh moves an expired open state to half-open. Callers hold the lock.
func (b *Breaker) refresh(now time.Time) {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.cfg.Cooldown {
		b.transition(StateHalfOpen, now)
	}
}

// transition switches state and resets counters. Callers hold the lock.
func (b *Breaker) transition(to State, now time.Time) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.epoch++
	b.failures = 0
	b.successes = 0
	b.inflight = 0
	if to == StateOpen {
		b.openedAt = now
	}
	if b.cfg.OnChange != nil {
		b.cfg.OnChange(b.name, from, to)
	}
}
