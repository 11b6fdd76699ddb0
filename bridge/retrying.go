package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/glin-ai/forgewatch/retry"
)

// ErrCircuitOpen is returned when the circuit breaker is rejecting calls
// after repeated bridge failures.
var ErrCircuitOpen = errors.New("bridge: circuit open, bridge considered down")

// Retrying decorates a Transport with a retry strategy and an optional
// circuit breaker. The watcher never uses this itself; it exists for
// one-shot callers who want their historical fetches retried.
type Retrying struct {
	inner    Transport
	strategy retry.Strategy
	breaker  *retry.CircuitBreaker
}

// NewRetrying wraps the given transport. The breaker may be nil.
func NewRetrying(inner Transport, s retry.Strategy, breaker *retry.CircuitBreaker) *Retrying {
	return &Retrying{inner: inner, strategy: s, breaker: breaker}
}

// Call invokes the inner transport, retrying failures per the strategy.
func (r *Retrying) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var out json.RawMessage
	err := retry.Do(ctx, r.strategy, func(ctx context.Context) error {
		if r.breaker != nil && !r.breaker.Allow() {
			return ErrCircuitOpen
		}
		raw, err := r.inner.Call(ctx, method, params)
		if err != nil {
			if r.breaker != nil {
				r.breaker.RecordFailure()
			}
			return err
		}
		if r.breaker != nil {
			r.breaker.RecordSuccess()
		}
		out = raw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
