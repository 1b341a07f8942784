// Package guard bounds calls to upstream services with failsafe-go policies:
// a per-call timeout and an optional circuit breaker shared by all calls to
// the same upstream.
package guard

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/timeout"
)

// Config configures a Guard.
type Config struct {
	// Name identifies the upstream in logs.
	Name string
	// Timeout bounds a single call. Zero disables the timeout.
	Timeout time.Duration
	// Breaker enables a circuit breaker.
	Breaker bool
	// BreakerDelay is how long the breaker stays open. Default: 30 seconds.
	BreakerDelay time.Duration
	// BreakerFailures is the failure count, out of BreakerWindow calls, that
	// opens the breaker. Defaults: 5 of 10.
	BreakerFailures uint
	BreakerWindow   uint
}

// Guard runs calls to one upstream.
type Guard struct {
	name    string
	timeout time.Duration
	breaker circuitbreaker.CircuitBreaker[any]
}

// New creates a Guard.
func New(cfg Config, logger *log.Logger) *Guard {
	g := &Guard{name: cfg.Name, timeout: cfg.Timeout}
	if !cfg.Breaker {
		return g
	}

	if cfg.BreakerDelay == 0 {
		cfg.BreakerDelay = 30 * time.Second
	}
	if cfg.BreakerWindow == 0 {
		cfg.BreakerWindow = 10
	}
	if cfg.BreakerFailures == 0 || cfg.BreakerFailures > cfg.BreakerWindow {
		cfg.BreakerFailures = cfg.BreakerWindow / 2
		if cfg.BreakerFailures == 0 {
			cfg.BreakerFailures = 1
		}
	}

	builder := circuitbreaker.NewBuilder[any]().
		WithFailureThresholdRatio(cfg.BreakerFailures, cfg.BreakerWindow).
		WithDelay(cfg.BreakerDelay).
		WithSuccessThreshold(1)
	if logger != nil {
		builder = builder.OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			logger.Warn("circuit breaker state change",
				"upstream", cfg.Name,
				"from", event.OldState.String(),
				"to", event.NewState.String())
		})
	}
	g.breaker = builder.Build()
	return g
}

// Name returns the upstream name.
func (g *Guard) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Do runs fn under the guard's policies. fn receives a context that is
// cancelled when the timeout elapses.
func Do[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	if g == nil || (g.timeout <= 0 && g.breaker == nil) {
		return fn(ctx)
	}

	var executor failsafe.Executor[any]
	switch {
	case g.breaker != nil && g.timeout > 0:
		executor = failsafe.With[any](g.breaker, timeout.NewBuilder[any](g.timeout).Build())
	case g.breaker != nil:
		executor = failsafe.With[any](g.breaker)
	default:
		executor = failsafe.With[any](timeout.NewBuilder[any](g.timeout).Build())
	}

	result, err := executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[any]) (any, error) {
		return fn(exec.Context())
	})
	if err != nil {
		var zero T
		return zero, err
	}
	value, _ := result.(T)
	return value, nil
}

// IsTimeout reports whether err came from an elapsed guard timeout or an
// expired context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, timeout.ErrExceeded) || errors.Is(err, context.DeadlineExceeded)
}

// IsOpen reports whether err came from an open circuit breaker.
func IsOpen(err error) bool {
	return errors.Is(err, circuitbreaker.ErrOpen)
}
