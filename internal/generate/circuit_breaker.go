package generate

import (
	"github.com/sony/gobreaker/v2"

	"intervue/internal/config"
	"intervue/internal/errors"
)

// QuestionCircuitBreaker wraps question generation calls with the
// circuit breaker pattern. A nil breaker executes calls directly.
type QuestionCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// NewQuestionCircuitBreaker creates a circuit breaker for generation calls
func NewQuestionCircuitBreaker(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *QuestionCircuitBreaker {
	// If circuit breaker is disabled, return nil to indicate no circuit breaker
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return &QuestionCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Execute executes the provided function with circuit breaker protection
func (cb *QuestionCircuitBreaker) Execute(fn func() (string, error)) (string, error) {
	if cb == nil || cb.cb == nil {
		// If breaker is disabled/nil, just execute the function directly
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics
func (cb *QuestionCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *QuestionCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true // If no circuit breaker, consider it healthy
	}
	return cb.cb.State() == gobreaker.StateClosed
}
