// Package circuitbreaker wraps sony/gobreaker with typed results and
// sensible defaults for outbound RPC/HTTP calls.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/devJaja/kivo-scanner/internal/apperror"
)

// Config re-exports the gobreaker settings so call sites can tune
// thresholds or hook OnStateChange.
type Config = gobreaker.Settings

// DefaultConfig returns settings tuned for flaky external dependencies:
// trip after 5 consecutive failures, probe again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// CircuitBreaker guards calls returning T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a breaker from cfg.
func New[T any](cfg Config) *CircuitBreaker[T] {
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](cfg)}
}

// Execute runs fn through the breaker. When the circuit is open the call
// is rejected immediately with a CIRCUIT_OPEN error.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := c.cb.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		var zero T
		return zero, apperror.New(apperror.CodeCircuitOpen,
			apperror.WithContext(c.cb.Name()), apperror.WithCause(err))
	}
	return result, err
}

// State reports the breaker's current state.
func (c *CircuitBreaker[T]) State() gobreaker.State {
	return c.cb.State()
}
