package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

// Probe pings one dependency; nil means reachable.
type Probe func(ctx context.Context) error

// Result is the latest recorded outcome for one dependency.
type Result struct {
	Healthy   bool
	Latency   time.Duration
	CheckedAt time.Time
	Err       error
	Checks    int
	Failures  int
}

// Monitor pings registered dependencies on an interval and logs
// transitions. The request-serving path never consults it; it exists so a
// database or revocation store outage shows up in the logs even while the
// instance sits idle.
type Monitor struct {
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	probes  map[string]Probe
	results map[string]Result

	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		interval: interval,
		logger:   logger,
		probes:   make(map[string]Probe),
		results:  make(map[string]Result),
	}
}

// Register adds a dependency under the given name. Call before Start.
func (m *Monitor) Register(name string, probe Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[name] = probe
}

// Start launches the watchdog goroutine. The first round runs immediately,
// the rest on the configured interval.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.watch(ctx, m.done)
}

// Stop halts the watchdog, aborting any in-flight probe, and waits for the
// goroutine to exit. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) watch(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.runRound(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runRound(ctx)
		}
	}
}

// runRound pings every dependency once.
func (m *Monitor) runRound(ctx context.Context) {
	m.mu.Lock()
	probes := make(map[string]Probe, len(m.probes))
	for name, probe := range m.probes {
		probes[name] = probe
	}
	m.mu.Unlock()

	for name, probe := range probes {
		pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		start := time.Now()
		err := probe(pingCtx)
		latency := time.Since(start)
		cancel()

		m.record(name, latency, err)
	}
}

// record updates the stored result and logs failures plus the first healthy
// round after a failure. Steady-state healthy rounds stay quiet.
func (m *Monitor) record(name string, latency time.Duration, err error) {
	m.mu.Lock()
	prev, tracked := m.results[name]
	next := Result{
		Healthy:   err == nil,
		Latency:   latency,
		CheckedAt: time.Now(),
		Err:       err,
		Checks:    prev.Checks + 1,
		Failures:  prev.Failures,
	}
	if err != nil {
		next.Failures++
	}
	m.results[name] = next
	m.mu.Unlock()

	switch {
	case err != nil:
		m.logger.Warn("Dependency unreachable",
			zap.String("dependency", name),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
	case tracked && !prev.Healthy:
		m.logger.Info("Dependency recovered",
			zap.String("dependency", name),
			zap.Duration("latency", latency),
		)
	}
}

// Result returns the latest outcome for a dependency and whether it has
// been probed yet.
func (m *Monitor) Result(name string) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[name]
	return r, ok
}
