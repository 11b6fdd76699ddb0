package forgewatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glin-ai/forgewatch/bridge"
	"github.com/glin-ai/forgewatch/event"
	"github.com/glin-ai/forgewatch/watcher"
)

// Well-known development account (//Alice).
const aliceAddr = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"

type transportFunc func(ctx context.Context, method string, params any) (json.RawMessage, error)

func (f transportFunc) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return f(ctx, method, params)
}

func watchResult(result string) Option {
	return WithTransport(transportFunc(func(ctx context.Context, method string, params any) (json.RawMessage, error) {
		return json.RawMessage(result), nil
	}))
}

func TestNewWithoutPortFails(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, bridge.ErrNoPort)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(bridge.PortEnv, "18545")
	c, err := FromEnv()
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestFromEnvMissing(t *testing.T) {
	t.Setenv(bridge.PortEnv, "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, bridge.ErrNoPort)
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv(bridge.PortEnv, "not-a-port")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestWatcherValidatesOptions(t *testing.T) {
	c, err := New(watchResult(`{"success": true, "events": []}`))
	require.NoError(t, err)

	_, err = c.Watcher(watcher.Options{Network: "testnet"})
	assert.ErrorIs(t, err, ErrMissingAddress)

	_, err = c.Watcher(watcher.Options{Address: "definitely-wrong", Network: "testnet"})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = c.Watcher(watcher.Options{Address: aliceAddr})
	assert.ErrorIs(t, err, ErrMissingNetwork)

	w, err := c.Watcher(watcher.Options{Address: aliceAddr, Network: "testnet"})
	require.NoError(t, err)
	assert.False(t, w.IsRunning())
}

func TestWatchEventsHistorical(t *testing.T) {
	c, err := New(watchResult(`{
		"success": true,
		"events": [
			{"blockNumber": 100, "eventName": "Transfer", "data": {}},
			{"blockNumber": 101, "eventName": "Transfer", "data": {}},
			{"blockNumber": 103, "eventName": "Minted", "data": {}}
		]
	}`))
	require.NoError(t, err)

	var blocks []uint64
	err = c.WatchEvents(watcher.Options{
		Address: aliceAddr,
		Network: "testnet",
		Limit:   10,
	}, func(ev event.ContractEvent) {
		blocks = append(blocks, ev.BlockNumber)
	})

	require.NoError(t, err)
	assert.Equal(t, []uint64{100, 101, 103}, blocks)
}

func TestEventsHelper(t *testing.T) {
	c, err := New(watchResult(`{
		"success": true,
		"events": [{"blockNumber": 7, "eventName": "Transfer", "data": {}}]
	}`))
	require.NoError(t, err)

	from := uint64(5)
	batch, err := c.Events(context.Background(), watcher.Options{
		Address:   aliceAddr,
		Network:   "testnet",
		FromBlock: &from,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Len())
	assert.False(t, batch.IsEmpty())
	assert.Equal(t, uint64(7), batch.LastBlock())
	assert.Equal(t, uint64(5), batch.FromBlock)
}

func TestEventsHelperValidates(t *testing.T) {
	c, err := New(watchResult(`{"success": true, "events": []}`))
	require.NoError(t, err)

	_, err = c.Events(context.Background(), watcher.Options{Address: "nope", Network: "testnet"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
