package circuit

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the breaker's position in its closed/open/half-open cycle.
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast
	StateHalfOpen              // limited probe calls allowed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without invoking the wrapped call while the breaker is
// rejecting traffic, either open or with all half-open probe slots taken.
var ErrOpen = errors.New("circuit open, failing fast")

// Config tunes when the breaker trips and how it recovers.
type Config struct {
	FailureThreshold int           // consecutive failures that trip the breaker
	Cooldown         time.Duration // rejection period before probing resumes
	SuccessThreshold int           // probe successes required to close again
	HalfOpenLimit    int           // probe calls allowed per half-open window
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		SuccessThreshold: 3,
		HalfOpenLimit:    3,
	}
}

// Breaker guards calls to one external dependency. Consecutive failures trip
// it open; after the cooldown a few probe calls may pass, and enough probe
// successes close it again. A single failed probe reopens it.
type Breaker struct {
	name   string
	config Config
	logger *zap.Logger
	clock  func() time.Time

	mu        sync.Mutex
	state     State
	failures  int // consecutive failures
	successes int // probe successes in the current half-open window
	probes    int // probe slots taken in the current half-open window
	openedAt  time.Time
}

// NewBreaker creates a closed breaker named after the dependency it guards.
func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.HalfOpenLimit < config.SuccessThreshold {
		// The breaker could never collect enough probe successes to close.
		config.HalfOpenLimit = config.SuccessThreshold
	}

	return &Breaker{
		name:   name,
		config: config,
		logger: logger,
		clock:  time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn under the breaker's supervision. While the breaker rejects
// traffic it returns ErrOpen and fn is not called.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.clock().Sub(b.openedAt) < b.config.Cooldown {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probes = 1
		return nil

	case StateHalfOpen:
		if b.probes >= b.config.HalfOpenLimit {
			return ErrOpen
		}
		b.probes++
		return nil

	default:
		return nil
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		if b.state == StateHalfOpen {
			b.successes++
			if b.successes >= b.config.SuccessThreshold {
				b.transition(StateClosed)
			}
		}
		return
	}

	b.failures++
	switch b.state {
	case StateClosed:
		if b.failures >= b.config.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		// One failed probe is enough evidence the dependency is still down.
		b.transition(StateOpen)
	}
}

// transition changes state. Caller must hold the lock.
func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.probes = 0
	b.successes = 0

	switch to {
	case StateOpen:
		b.openedAt = b.clock()
	case StateClosed:
		b.failures = 0
	}

	b.logger.Info("Circuit state changed",
		zap.String("circuit", b.name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether calls are currently rejected outright.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Stats returns breaker statistics for diagnostics.
func (b *Breaker) Stats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := map[string]interface{}{
		"circuit":              b.name,
		"state":                b.state.String(),
		"consecutive_failures": b.failures,
		"failure_threshold":    b.config.FailureThreshold,
		"cooldown":             b.config.Cooldown.String(),
	}
	if !b.openedAt.IsZero() {
		stats["last_opened_at"] = b.openedAt
	}
	return stats
}

// Reset forces the breaker closed, clearing all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateClosed {
		b.transition(StateClosed)
		return
	}
	b.failures = 0
	b.successes = 0
	b.probes = 0
}
