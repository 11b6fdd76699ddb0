// Package listener provides the callback registry that fans contract events
// out to caller-registered listeners by event name.
package listener

import (
	"log/slog"
	"sync"

	"github.com/glin-ai/forgewatch/event"
)

// Wildcard is the registration key that matches every dispatched event.
const Wildcard = "*"

// Callback is the function signature for event listeners.
type Callback func(event.ContractEvent)

type entry struct {
	id uint64
	fn Callback
}

// Registry maps event names to ordered lists of callbacks. Registration order
// is dispatch order, and identical callbacks registered twice are invoked
// twice. All methods are safe for concurrent use, including from within a
// callback during dispatch.
type Registry struct {
	log *slog.Logger

	mu      sync.RWMutex
	entries map[string][]entry
	nextID  uint64
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default; the logger only reports panicking callbacks.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:     log,
		entries: make(map[string][]entry),
	}
}

// Registration identifies a single callback registration so that exactly
// that registration can be removed later.
type Registration struct {
	registry *Registry
	name     string
	id       uint64
}

// Remove deletes this registration. Listeners already snapshotted by an
// in-progress dispatch still run; later dispatches will not see it.
// Removing twice is a no-op.
func (r *Registration) Remove() {
	r.registry.remove(r.name, r.id)
}

// On registers a callback under the given event name. Use Wildcard to
// receive every event. The returned Registration removes this callback only.
func (r *Registry) On(name string, fn Callback) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.entries[name] = append(r.entries[name], entry{id: r.nextID, fn: fn})
	return &Registration{registry: r, name: name, id: r.nextID}
}

// Off removes every callback registered under the given event name.
// No-op if the name has no registrations.
func (r *Registry) Off(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Clear removes every registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string][]entry)
}

// Len returns the number of callbacks registered under the given name.
func (r *Registry) Len(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[name])
}

// Dispatch synchronously invokes every callback registered under the event's
// name, then every wildcard callback, each group in registration order.
// It iterates over a snapshot, so callbacks may add or remove registrations
// without affecting the in-progress pass. A panicking callback is logged and
// does not stop the remaining callbacks.
func (r *Registry) Dispatch(ev event.ContractEvent) {
	r.mu.RLock()
	snapshot := make([]entry, 0, len(r.entries[ev.EventName])+len(r.entries[Wildcard]))
	snapshot = append(snapshot, r.entries[ev.EventName]...)
	if ev.EventName != Wildcard {
		snapshot = append(snapshot, r.entries[Wildcard]...)
	}
	r.mu.RUnlock()

	for _, e := range snapshot {
		r.invoke(e, ev)
	}
}

func (r *Registry) invoke(e entry, ev event.ContractEvent) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("event listener panicked",
				"event", ev.EventName,
				"block", ev.BlockNumber,
				"panic", p,
			)
		}
	}()
	e.fn(ev)
}

func (r *Registry) remove(name string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.entries[name]
	for i, e := range list {
		if e.id == id {
			r.entries[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(r.entries[name]) == 0 {
		delete(r.entries, name)
	}
}
