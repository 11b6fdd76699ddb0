package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glin-ai/forgewatch/event"
)

type paramsWithNetwork struct {
	Network string `json:"network"`
}

type paramsWithAddress struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

// Client is a typed view of the bridge RPC surface. It owns no retry policy;
// callers decide whether a failed exchange is worth repeating.
type Client struct {
	transport Transport
}

// NewClient wraps a Transport in a typed bridge client.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Watch retrieves contract events matching the given parameters.
// The returned slice preserves the bridge's ordering.
func (c *Client) Watch(ctx context.Context, p WatchParams) ([]event.ContractEvent, error) {
	raw, err := c.transport.Call(ctx, "watch", p)
	if err != nil {
		return nil, err
	}

	var res WatchResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("bridge: malformed watch result: %w", err)
	}
	if !res.Success {
		return nil, resultError("watch", res.Error)
	}
	return res.Events, nil
}

// BlockNumber returns the current block height of the given network.
func (c *Client) BlockNumber(ctx context.Context, network string) (uint64, error) {
	raw, err := c.transport.Call(ctx, "getBlockNumber", paramsWithNetwork{Network: network})
	if err != nil {
		return 0, err
	}

	var res blockNumberResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return 0, fmt.Errorf("bridge: malformed getBlockNumber result: %w", err)
	}
	if !res.Success || res.BlockNumber == nil {
		return 0, resultError("getBlockNumber", res.Error)
	}
	return *res.BlockNumber, nil
}

// Balance returns the free balance of an account as a decimal string,
// in the network's smallest unit.
func (c *Client) Balance(ctx context.Context, address, network string) (string, error) {
	raw, err := c.transport.Call(ctx, "getBalance", paramsWithAddress{Address: address, Network: network})
	if err != nil {
		return "", err
	}

	var res balanceResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("bridge: malformed getBalance result: %w", err)
	}
	if !res.Success {
		return "", resultError("getBalance", res.Error)
	}
	return res.Balance, nil
}

// NetworkInfo returns the bridge's view of the named network.
func (c *Client) NetworkInfo(ctx context.Context, network string) (*NetworkInfo, error) {
	raw, err := c.transport.Call(ctx, "getNetworkInfo", paramsWithNetwork{Network: network})
	if err != nil {
		return nil, err
	}

	var res networkInfoResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("bridge: malformed getNetworkInfo result: %w", err)
	}
	if !res.Success {
		return nil, resultError("getNetworkInfo", res.Error)
	}

	info := &NetworkInfo{Name: res.Name, RPC: res.RPC}
	if res.BlockNumber != nil {
		info.BlockNumber = *res.BlockNumber
	}
	return info, nil
}

// RequestFaucet asks the network faucet to fund the given account.
// Only available on test networks.
func (c *Client) RequestFaucet(ctx context.Context, address, network string) (*FaucetGrant, error) {
	raw, err := c.transport.Call(ctx, "requestFaucet", paramsWithAddress{Address: address, Network: network})
	if err != nil {
		return nil, err
	}

	var res faucetResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("bridge: malformed requestFaucet result: %w", err)
	}
	if !res.Success {
		return nil, resultError("requestFaucet", res.Error)
	}
	return &FaucetGrant{Amount: res.Amount, TxHash: res.TxHash}, nil
}

// resultError turns a success=false envelope into an error carrying the
// bridge-reported message when one is present.
func resultError(method, msg string) error {
	if msg == "" {
		return errors.New("bridge: " + method + " failed")
	}
	return fmt.Errorf("bridge: %s failed: %s", method, msg)
}
