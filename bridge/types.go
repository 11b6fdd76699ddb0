package bridge

import (
	"github.com/glin-ai/forgewatch/event"
)

// WatchParams are the parameters of the bridge's "watch" method.
type WatchParams struct {
	// Address is the contract address to watch.
	Address string `json:"address"`

	// Event filters by event name; empty means all events.
	Event string `json:"event,omitempty"`

	// Network names the chain the bridge should query.
	Network string `json:"network"`

	// Follow asks the bridge to report newly arriving events rather than
	// scanning recent history. The call still returns promptly either way;
	// re-polling is this client's job.
	Follow bool `json:"follow"`

	// Limit caps the number of events returned. Zero means bridge default.
	Limit uint64 `json:"limit,omitempty"`

	// FromBlock restricts results to events at or above this block height.
	FromBlock *uint64 `json:"fromBlock,omitempty"`
}

// WatchResult is the envelope of the "watch" method.
type WatchResult struct {
	Success bool                  `json:"success"`
	Events  []event.ContractEvent `json:"events"`
	Error   string                `json:"error,omitempty"`
}

type blockNumberResult struct {
	Success     bool    `json:"success"`
	BlockNumber *uint64 `json:"blockNumber"`
	Error       string  `json:"error,omitempty"`
}

type balanceResult struct {
	Success bool   `json:"success"`
	Balance string `json:"balance"`
	Error   string `json:"error,omitempty"`
}

// NetworkInfo describes a network known to the bridge.
type NetworkInfo struct {
	Name        string `json:"name"`
	RPC         string `json:"rpc"`
	BlockNumber uint64 `json:"blockNumber"`
}

type networkInfoResult struct {
	Success     bool    `json:"success"`
	Name        string  `json:"name"`
	RPC         string  `json:"rpc"`
	BlockNumber *uint64 `json:"blockNumber"`
	Error       string  `json:"error,omitempty"`
}

// FaucetGrant is the outcome of a successful faucet request.
type FaucetGrant struct {
	Amount string `json:"amount"`
	TxHash string `json:"txHash"`
}

type faucetResult struct {
	Success bool   `json:"success"`
	Amount  string `json:"amount"`
	TxHash  string `json:"txHash"`
	Error   string `json:"error,omitempty"`
}
