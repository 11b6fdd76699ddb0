package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glin-ai/forgewatch/bridge"
	"github.com/glin-ai/forgewatch/event"
	"github.com/glin-ai/forgewatch/middleware"
	"github.com/glin-ai/forgewatch/retry"
)

// fakeBridge scripts bridge responses call by call and records parameters.
type fakeBridge struct {
	mu    sync.Mutex
	calls []bridge.WatchParams
	fn    func(call int, p bridge.WatchParams) ([]event.ContractEvent, error)
}

func (f *fakeBridge) Watch(ctx context.Context, p bridge.WatchParams) ([]event.ContractEvent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	call := len(f.calls)
	fn := f.fn
	f.mu.Unlock()
	return fn(call, p)
}

func (f *fakeBridge) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBridge) call(i int) bridge.WatchParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func events(blocks ...uint64) []event.ContractEvent {
	out := make([]event.ContractEvent, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, event.ContractEvent{
			BlockNumber: b,
			EventName:   "Transfer",
			Data:        json.RawMessage(`{"value":"1"}`),
		})
	}
	return out
}

func quietConfig() Config {
	return Config{
		PollInterval: time.Millisecond,
		ErrorRetry:   retry.NewFixed(time.Millisecond),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHistoricalFetchOnce(t *testing.T) {
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		return events(100, 101, 103), nil
	}}

	w := New(fb, Options{
		Address: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
		Network: "testnet",
		Limit:   10,
	}, quietConfig())

	var got []uint64
	w.OnAll(func(ev event.ContractEvent) { got = append(got, ev.BlockNumber) })

	require.NoError(t, w.Start())

	assert.Equal(t, 1, fb.callCount(), "historical mode issues exactly one bridge request")
	assert.Equal(t, []uint64{100, 101, 103}, got, "events dispatched in array order")
	assert.Equal(t, StateIdle, w.State())

	p := fb.call(0)
	assert.False(t, p.Follow)
	assert.Equal(t, uint64(10), p.Limit)
	assert.Equal(t, "testnet", p.Network)
}

func TestHistoricalErrorPropagates(t *testing.T) {
	wantErr := errors.New("bridge down")
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		return nil, wantErr
	}}

	w := New(fb, Options{Address: "5Grw", Network: "testnet"}, quietConfig())
	assert.ErrorIs(t, w.Start(), wantErr)
	assert.Equal(t, StateIdle, w.State(), "a failed historical fetch leaves the watcher idle")
}

func TestStartWhileRunningFails(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		started <- struct{}{}
		<-release
		return nil, nil
	}}

	w := New(fb, Options{Address: "5Grw", Network: "testnet", Follow: true}, quietConfig())

	done := make(chan error, 1)
	go func() { done <- w.Start() }()
	<-started

	assert.True(t, w.IsRunning())
	assert.ErrorIs(t, w.Start(), ErrAlreadyRunning)
	assert.Equal(t, 1, fb.callCount(), "the rejected Start must not issue a bridge request")

	w.Stop()
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, w.State())
}

func TestFollowCursorAdvance(t *testing.T) {
	third := make(chan struct{})
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		switch call {
		case 1:
			return events(50, 52), nil
		case 3:
			close(third)
		}
		return nil, nil
	}}

	w := New(fb, Options{Address: "5Grw", Network: "testnet", Follow: true}, quietConfig())

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	select {
	case <-third:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for polls")
	}
	w.Stop()
	require.NoError(t, <-done)

	first := fb.call(0)
	assert.Nil(t, first.FromBlock, "initial poll carries no cursor when FromBlock is absent")
	assert.True(t, first.Follow)
	assert.Equal(t, uint64(DefaultLimit), first.Limit, "follow mode defaults the limit to 10")

	second := fb.call(1)
	require.NotNil(t, second.FromBlock)
	assert.Equal(t, uint64(53), *second.FromBlock, "cursor advances past the last seen block")

	afterEmpty := fb.call(2)
	require.NotNil(t, afterEmpty.FromBlock)
	assert.Equal(t, uint64(53), *afterEmpty.FromBlock, "an empty batch leaves the cursor unchanged")
}

func TestStopDuringDelayPreventsFurtherRequests(t *testing.T) {
	polled := make(chan struct{}, 1)
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		polled <- struct{}{}
		return events(10), nil
	}}

	cfg := quietConfig()
	cfg.PollInterval = time.Hour // park the loop in the inter-poll wait

	w := New(fb, Options{Address: "5Grw", Network: "testnet", Follow: true}, cfg)

	var dispatched int
	w.OnAll(func(event.ContractEvent) { dispatched++ })

	done := make(chan error, 1)
	go func() { done <- w.Start() }()
	<-polled

	w.Stop()
	require.NoError(t, <-done)

	assert.Equal(t, 1, fb.callCount(), "no bridge request after stop takes effect")
	assert.Equal(t, 1, dispatched)
	assert.Equal(t, StateIdle, w.State())
}

func TestStopIsIdempotentAndObservedImmediately(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil, nil
	}}

	w := New(fb, Options{Address: "5Grw", Network: "testnet", Follow: true}, quietConfig())

	w.Stop() // stopping an idle watcher is a no-op
	assert.Equal(t, StateIdle, w.State())

	done := make(chan error, 1)
	go func() { done <- w.Start() }()
	<-started

	w.Stop()
	assert.False(t, w.IsRunning(), "watcher is observably not running as soon as Stop is called")
	w.Stop() // second stop is a no-op, not a double close

	close(release)
	require.NoError(t, <-done)
}

func TestFollowSurvivesBridgeFailures(t *testing.T) {
	recovered := make(chan struct{})
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		switch call {
		case 1:
			return nil, errors.New("connection refused")
		case 2:
			close(recovered)
			return events(7), nil
		}
		return nil, nil
	}}

	w := New(fb, Options{Address: "5Grw", Network: "testnet", Follow: true}, quietConfig())

	var pollErrs []error
	w.OnError(func(err error) { pollErrs = append(pollErrs, err) })

	var dispatched int
	w.OnAll(func(event.ContractEvent) { dispatched++ })

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	select {
	case <-recovered:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not retry after a bridge failure")
	}
	w.Stop()
	require.NoError(t, <-done)

	require.NotEmpty(t, pollErrs)
	assert.EqualError(t, pollErrs[0], "connection refused")
	assert.GreaterOrEqual(t, dispatched, 1, "events after a transient failure still reach listeners")
}

type dropAll struct{}

func (dropAll) Wrap(next middleware.Handler) middleware.Handler {
	return func(ev event.ContractEvent) *event.ContractEvent { return nil }
}

func TestMiddlewareRunsBeforeListeners(t *testing.T) {
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		return events(1), nil
	}}

	cfg := quietConfig()
	cfg.Middleware = []middleware.Middleware{dropAll{}}

	w := New(fb, Options{Address: "5Grw", Network: "testnet"}, cfg)

	var dispatched int
	w.OnAll(func(event.ContractEvent) { dispatched++ })

	require.NoError(t, w.Start())
	assert.Zero(t, dispatched, "events dropped by middleware never reach listeners")
}

func TestCallerCursorIsCopied(t *testing.T) {
	stop := make(chan struct{})
	fb := &fakeBridge{fn: func(call int, p bridge.WatchParams) ([]event.ContractEvent, error) {
		if call == 1 {
			close(stop)
			return events(90), nil
		}
		return nil, nil
	}}

	start := uint64(42)
	w := New(fb, Options{Address: "5Grw", Network: "testnet", Follow: true, FromBlock: &start}, quietConfig())

	done := make(chan error, 1)
	go func() { done <- w.Start() }()
	<-stop
	w.Stop()
	require.NoError(t, <-done)

	p := fb.call(0)
	require.NotNil(t, p.FromBlock)
	assert.Equal(t, uint64(42), *p.FromBlock)
	assert.Equal(t, uint64(42), start, "the watcher never writes through the caller's pointer")
}
