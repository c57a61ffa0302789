package circuit

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("smtp", Config{FailureThreshold: 3, Cooldown: time.Minute, SuccessThreshold: 1, HalfOpenLimit: 1}, nil)

	boom := errors.New("dial tcp: connection refused")
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Expected wrapped call error, got %v", err)
		}
	}

	if !b.IsOpen() {
		t.Fatal("Expected breaker to open after reaching the failure threshold")
	}

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpen) {
		t.Errorf("Expected ErrOpen, got %v", err)
	}
	if called {
		t.Error("Expected wrapped call to be skipped while open")
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("smtp", Config{FailureThreshold: 2, Cooldown: time.Minute, SuccessThreshold: 1, HalfOpenLimit: 1}, nil)

	boom := errors.New("smtp 421 service not available")
	_ = b.Execute(func() error { return boom })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return boom })

	if b.IsOpen() {
		t.Error("Expected breaker to stay closed when failures are not consecutive")
	}
}

func TestBreaker_RecoversThroughHalfOpen(t *testing.T) {
	now := time.Now()
	b := NewBreaker("smtp", Config{FailureThreshold: 1, Cooldown: 30 * time.Second, SuccessThreshold: 2, HalfOpenLimit: 2}, nil)
	b.clock = func() time.Time { return now }

	_ = b.Execute(func() error { return errors.New("connection reset") })
	if !b.IsOpen() {
		t.Fatal("Expected breaker to open")
	}

	// Still inside the cooldown window.
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Fatalf("Expected ErrOpen during cooldown, got %v", err)
	}

	now = now.Add(31 * time.Second)

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected first probe to pass, got %v", err)
	}
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("Expected half-open after first probe, got %s", got)
	}

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected second probe to pass, got %v", err)
	}
	if got := b.State(); got != StateClosed {
		t.Errorf("Expected closed after enough probe successes, got %s", got)
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker("smtp", Config{FailureThreshold: 1, Cooldown: 30 * time.Second, SuccessThreshold: 1, HalfOpenLimit: 1}, nil)
	b.clock = func() time.Time { return now }

	_ = b.Execute(func() error { return errors.New("down") })
	now = now.Add(31 * time.Second)

	if err := b.Execute(func() error { return errors.New("still down") }); err == nil {
		t.Fatal("Expected probe call to surface its error")
	}

	if !b.IsOpen() {
		t.Error("Expected a failed probe to reopen the breaker")
	}

	// The cooldown restarts from the reopen.
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Errorf("Expected ErrOpen right after reopening, got %v", err)
	}
}

func TestBreaker_HalfOpenProbeLimit(t *testing.T) {
	now := time.Now()
	b := NewBreaker("smtp", Config{FailureThreshold: 1, Cooldown: time.Second, SuccessThreshold: 2, HalfOpenLimit: 2}, nil)
	b.clock = func() time.Time { return now }

	_ = b.Execute(func() error { return errors.New("down") })
	now = now.Add(2 * time.Second)

	// Two in-flight probes take both slots; a third is rejected for the
	// rest of the window.
	if err := b.allow(); err != nil {
		t.Fatalf("Expected first probe slot, got %v", err)
	}
	if err := b.allow(); err != nil {
		t.Fatalf("Expected second probe slot, got %v", err)
	}
	if err := b.allow(); !errors.Is(err, ErrOpen) {
		t.Errorf("Expected ErrOpen when probe slots are exhausted, got %v", err)
	}
}

func TestBreaker_ClampsHalfOpenLimit(t *testing.T) {
	b := NewBreaker("smtp", Config{FailureThreshold: 1, Cooldown: time.Second, SuccessThreshold: 5, HalfOpenLimit: 1}, nil)

	if b.config.HalfOpenLimit != 5 {
		t.Errorf("Expected half-open limit raised to the success threshold, got %d", b.config.HalfOpenLimit)
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker("smtp", Config{FailureThreshold: 1, Cooldown: time.Hour, SuccessThreshold: 1, HalfOpenLimit: 1}, nil)

	_ = b.Execute(func() error { return errors.New("down") })
	if !b.IsOpen() {
		t.Fatal("Expected breaker to open")
	}

	b.Reset()

	if b.State() != StateClosed {
		t.Fatalf("Expected closed after reset, got %s", b.State())
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Errorf("Expected call to pass after reset, got %v", err)
	}
}
