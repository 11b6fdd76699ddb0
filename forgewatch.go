// Package forgewatch is the Go client for watching smart-contract events
// through a local glin-forge bridge process.
//
// The bridge (started by `glin-forge dev` or `glin-forge run`) talks to the
// chain and exposes a JSON-RPC "watch" method; this package polls it and fans
// retrieved events out to registered listeners.
//
// Usage:
//
//	c, err := forgewatch.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = c.WatchEvents(watcher.Options{
//	    Address: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
//	    Network: "testnet",
//	    Follow:  true,
//	}, func(ev event.ContractEvent) {
//	    fmt.Println("event:", ev.EventName, "block:", ev.BlockNumber)
//	})
package forgewatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/glin-ai/forgewatch/bridge"
	"github.com/glin-ai/forgewatch/event"
	"github.com/glin-ai/forgewatch/internal/ss58"
	"github.com/glin-ai/forgewatch/listener"
	"github.com/glin-ai/forgewatch/middleware"
	"github.com/glin-ai/forgewatch/watcher"
)

// Client is the SDK entry point. It is safe for concurrent use; watchers
// created from one client are fully independent of each other.
type Client struct {
	transport   bridge.Transport
	bridge      *bridge.Client
	config      Config
	log         *slog.Logger
	middlewares []middleware.Middleware
}

// New creates a Client with the given options. Unless a custom transport is
// supplied, a bridge port must be configured; construction fails hard
// without one, because it means the bridge process was never started.
func New(opts ...Option) (*Client, error) {
	c := &Client{config: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = slog.Default()
	}
	if c.transport == nil {
		t, err := bridge.NewHTTP(c.config.Port)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	c.bridge = bridge.NewClient(c.transport)
	return c, nil
}

// FromEnv creates a Client using the bridge port published in the
// GLIN_FORGE_RPC_PORT environment variable. This is the one place the SDK
// reads ambient process state; everything downstream sees an injected value.
func FromEnv(opts ...Option) (*Client, error) {
	raw := os.Getenv(bridge.PortEnv)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s is not set", bridge.ErrNoPort, bridge.PortEnv)
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("forgewatch: invalid %s value %q: %w", bridge.PortEnv, raw, err)
	}
	return New(append([]Option{WithPort(port)}, opts...)...)
}

// Watcher creates an EventWatcher for the given watch options. The caller
// owns its lifecycle: register listeners, then Start it (typically in a
// goroutine for follow mode) and Stop it when done.
func (c *Client) Watcher(opts watcher.Options) (*watcher.EventWatcher, error) {
	if err := c.validate(opts); err != nil {
		return nil, err
	}
	return watcher.New(c.bridge, opts, watcher.Config{
		PollInterval: c.config.PollInterval,
		ErrorRetry:   c.config.ErrorRetry,
		Middleware:   c.middlewares,
		Logger:       c.log,
	}), nil
}

// WatchEvents is the one-shot helper: it builds a watcher, registers onEvent
// at the wildcard key and runs it to completion. It returns when a
// historical fetch finishes, or — in follow mode — after Stop is called on
// the watcher from another goroutine, which this helper does not expose;
// use Watcher directly when you need lifecycle control.
func (c *Client) WatchEvents(opts watcher.Options, onEvent listener.Callback) error {
	w, err := c.Watcher(opts)
	if err != nil {
		return err
	}
	w.OnAll(onEvent)
	return w.Start()
}

// Events performs a single historical fetch and returns the batch without
// involving a watcher. Use it when you want the events, not a subscription.
func (c *Client) Events(ctx context.Context, opts watcher.Options) (event.Batch, error) {
	if err := c.validate(opts); err != nil {
		return event.Batch{}, err
	}

	evs, err := c.bridge.Watch(ctx, bridge.WatchParams{
		Address:   opts.Address,
		Event:     opts.Event,
		Network:   opts.Network,
		Follow:    false,
		Limit:     opts.Limit,
		FromBlock: opts.FromBlock,
	})
	if err != nil {
		return event.Batch{}, err
	}

	batch := event.Batch{Events: evs}
	if opts.FromBlock != nil {
		batch.FromBlock = *opts.FromBlock
	}
	return batch, nil
}

// BlockNumber returns the current block height of the given network.
func (c *Client) BlockNumber(ctx context.Context, network string) (uint64, error) {
	return c.bridge.BlockNumber(ctx, network)
}

// Balance returns an account's free balance as a decimal string.
func (c *Client) Balance(ctx context.Context, address, network string) (string, error) {
	if err := ss58.Validate(address); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return c.bridge.Balance(ctx, address, network)
}

// NetworkInfo returns the bridge's view of the named network.
func (c *Client) NetworkInfo(ctx context.Context, network string) (*bridge.NetworkInfo, error) {
	return c.bridge.NetworkInfo(ctx, network)
}

// RequestFaucet asks the test-network faucet to fund the given account.
func (c *Client) RequestFaucet(ctx context.Context, address, network string) (*bridge.FaucetGrant, error) {
	if err := ss58.Validate(address); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return c.bridge.RequestFaucet(ctx, address, network)
}

func (c *Client) validate(opts watcher.Options) error {
	if opts.Address == "" {
		return ErrMissingAddress
	}
	if err := ss58.Validate(opts.Address); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if opts.Network == "" {
		return ErrMissingNetwork
	}
	return nil
}
