package httpx

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sony/gobreaker"
)

// halfOpenProbes is how many requests may test a recovering target.
const halfOpenProbes = 1

type CircuitBreaker interface {
	Execute(fn func() error) error
	State() gobreaker.State
}

type circuitBreakerWrapper struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker opens after maxFailures consecutive failures and probes
// the target again once timeout has passed. State changes are published on
// the barbutler_breaker_state gauge.
func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32) CircuitBreaker {
	prometheus.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return &circuitBreakerWrapper{
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: halfOpenProbes,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, _, to gobreaker.State) {
				prometheus.BreakerState.WithLabelValues(name).Set(float64(to))
			},
		}),
	}
}

func (g *circuitBreakerWrapper) Execute(fn func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), err)
	}
	return nil
}

func (g *circuitBreakerWrapper) State() gobreaker.State {
	return g.breaker.State()
}
