// Package middleware provides interceptors for the event dispatch pipeline.
package middleware

import (
	"github.com/glin-ai/forgewatch/event"
)

// Handler processes a contract event and returns a (possibly modified) event.
// Returning nil signals that the event should be dropped before it reaches
// the listeners.
type Handler func(ev event.ContractEvent) *event.ContractEvent

// Middleware wraps a Handler, adding cross-cutting behavior (logging, metrics, etc.).
type Middleware interface {
	// Wrap returns a new Handler that decorates the given inner handler.
	Wrap(next Handler) Handler
}

// Chain composes multiple middlewares into a single Handler, applying them
// in the order provided (first middleware is outermost).
func Chain(handler Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i].Wrap(handler)
	}
	return handler
}
