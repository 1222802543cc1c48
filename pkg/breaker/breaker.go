package breaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without invoking the wrapped call while the breaker
// is cooling down.
var ErrOpen = errors.New("breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker trips after maxFailures errors inside the sliding window and stays
// open for the cooldown period, after which a single probe call is let
// through.
type Breaker struct {
	maxFailures int
	window      time.Duration
	cooldown    time.Duration

	mu          sync.Mutex
	st          state
	failures    []time.Time
	lastFailure time.Time
}

func New(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		window:      60 * time.Second,
		cooldown:    cooldown,
		st:          stateClosed,
	}
}

func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.st == stateOpen {
		if time.Since(b.lastFailure) < b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.st = stateHalfOpen
		b.failures = b.failures[:0]
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if err != nil {
		b.lastFailure = now
		b.failures = append(b.failures, now)
		b.dropExpired(now)
		if len(b.failures) > b.maxFailures || b.st == stateHalfOpen {
			b.st = stateOpen
		}
		return err
	}

	b.dropExpired(now)
	if b.st == stateHalfOpen {
		b.st = stateClosed
		b.failures = b.failures[:0]
	}
	return nil
}

func (b *Breaker) dropExpired(now time.Time) {
	cutoff := now.Add(-b.window)
	kept := b.failures[:0]
	for _, t := range b.failures {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.failures = kept
}
