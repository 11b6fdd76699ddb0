// Package watcher provides the polling state machine that retrieves contract
// events from the glin-forge bridge and fans them out to listeners.
package watcher

import (
	"context"
	"errors"

	"github.com/glin-ai/forgewatch/bridge"
	"github.com/glin-ai/forgewatch/event"
)

// ErrAlreadyRunning is returned by Start when a run is already active.
// The rejected call issues no bridge request and has no side effects.
var ErrAlreadyRunning = errors.New("watcher: already running")

// Bridge is the slice of the bridge client the watcher needs. Tests inject
// fakes; production code passes a *bridge.Client.
type Bridge interface {
	Watch(ctx context.Context, p bridge.WatchParams) ([]event.ContractEvent, error)
}

// Watcher is the lifecycle contract shared by watcher implementations.
type Watcher interface {
	// Start runs the watcher. In historical mode it returns after one fetch;
	// in follow mode it blocks until Stop is called.
	Start() error

	// Stop requests a cooperative stop. An in-flight bridge call finishes
	// first; the loop honors the request at its next boundary.
	Stop()

	// IsRunning reports whether a run is currently active.
	IsRunning() bool
}

// State is the lifecycle state of a watcher.
type State int32

const (
	// StateIdle means no run is active. Initial and terminal.
	StateIdle State = iota
	// StateRunning means a run is active.
	StateRunning
	// StateStopping means a stop has been requested but the loop has not
	// yet reached a boundary where it can exit.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
