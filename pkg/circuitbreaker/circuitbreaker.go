// Package circuitbreaker wraps sony/gobreaker with the settings shared by the
// external dependencies (Redis) and logs every state change.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

type Settings struct {
	Name string
	// MaxRequests is allowed through while half-open.
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Failures is the consecutive failure count that opens the breaker.
	Failures uint32
}

func DefaultSettings(name string) Settings {
	return Settings{
		Name:        name,
		MaxRequests: 100,
		Interval:    10 * time.Second,
		Timeout:     5 * time.Second,
		Failures:    5,
	}
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(settings Settings, logger zerolog.Logger) *CircuitBreaker {
	if settings.Failures == 0 {
		settings.Failures = 5
	}
	failures := settings.Failures
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})}
}

// Execute runs fn unless the breaker is open.
func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}

// IsOpen reports whether err was returned without calling fn.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
