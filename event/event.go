// Package event defines the core data structures for contract events
// returned by the glin-forge bridge.
package event

import (
	"encoding/json"
)

// ContractEvent represents a single event emitted by a smart contract,
// as reported by the bridge's "watch" method.
type ContractEvent struct {
	// BlockNumber is the block in which this event was emitted.
	BlockNumber uint64 `json:"blockNumber"`

	// EventName is the event's variant name (e.g. "Transfer").
	EventName string `json:"eventName"`

	// Data holds the event payload. The bridge decodes it from SCALE into
	// JSON; this client passes it through opaquely.
	Data json.RawMessage `json:"data"`
}

// DataString returns the payload as a string, or "(no data)" if absent.
func (e ContractEvent) DataString() string {
	if len(e.Data) == 0 {
		return "(no data)"
	}
	return string(e.Data)
}
