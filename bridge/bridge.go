// Package bridge provides the JSON-RPC client for the glin-forge bridge
// process, the local server that talks to the chain on this client's behalf.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
)

// PortEnv is the environment variable through which the bridge process
// publishes its listen port. Reading it is the caller's responsibility;
// the transport itself only ever sees the injected value.
const PortEnv = "GLIN_FORGE_RPC_PORT"

// ErrNoPort is returned when a transport is constructed without a usable
// bridge port. This is fatal: it means the bridge process was never started.
var ErrNoPort = errors.New("bridge: no RPC port configured (is the glin-forge dev server running?)")

// Transport sends a JSON-RPC request to the bridge and returns the raw result.
type Transport interface {
	// Call invokes the named method with a single parameter object and
	// returns the result bytes. A non-nil error covers transport failures,
	// RPC-level errors and malformed envelopes alike.
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}
