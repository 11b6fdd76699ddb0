package watcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/glin-ai/forgewatch/bridge"
	"github.com/glin-ai/forgewatch/event"
	"github.com/glin-ai/forgewatch/listener"
	"github.com/glin-ai/forgewatch/middleware"
	"github.com/glin-ai/forgewatch/retry"
)

// DefaultLimit is applied to follow-mode polls when no limit is set.
const DefaultLimit = 10

// Options are the watch parameters. They live exactly as long as the watcher;
// FromBlock is the only field the watcher mutates, and only from its own loop.
type Options struct {
	// Address is the contract address to watch.
	Address string

	// Event filters by event name; empty delivers all events.
	Event string

	// Network names the chain the bridge should query.
	Network string

	// Follow selects continuous polling instead of a one-shot fetch.
	Follow bool

	// Limit caps events per bridge call. Zero means the bridge default,
	// except in follow mode where it defaults to DefaultLimit.
	Limit uint64

	// FromBlock is the block cursor. Nil starts wherever the bridge
	// considers recent.
	FromBlock *uint64
}

// Config tunes the polling loop.
type Config struct {
	// PollInterval is the delay between successful follow-mode polls.
	PollInterval time.Duration

	// ErrorRetry computes the delay after a failed follow-mode poll, keyed
	// by the number of consecutive failures. Follow mode never gives up; a
	// strategy that runs out of attempts falls back to the default delay.
	ErrorRetry retry.Strategy

	// Middleware is applied to each event before it reaches the listeners.
	Middleware []middleware.Middleware

	// Logger receives poll failures and listener panics. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the nominal polling configuration: a one second poll
// interval and a fixed five second delay after failures.
func DefaultConfig() Config {
	return Config{
		PollInterval: 1 * time.Second,
		ErrorRetry:   retry.NewFixed(5 * time.Second),
	}
}

const fallbackErrorDelay = 5 * time.Second

// EventWatcher drives historical-fetch-once or poll-until-stopped retrieval
// against the bridge and routes events through the listener registry.
//
// The loop is strictly sequential: no two polls overlap, and a poll's events
// are fully dispatched before the next poll is issued. Independent instances
// share no state and may run concurrently.
type EventWatcher struct {
	bridge   Bridge
	opts     Options
	config   Config
	log      *slog.Logger
	registry *listener.Registry
	dispatch middleware.Handler

	mu      sync.Mutex
	state   State
	stopCh  chan struct{}
	onError func(error)
}

// New creates an EventWatcher. The cursor in opts is copied; the caller's
// value is never written back.
func New(b Bridge, opts Options, cfg Config) *EventWatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.ErrorRetry == nil {
		cfg.ErrorRetry = DefaultConfig().ErrorRetry
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.FromBlock != nil {
		start := *opts.FromBlock
		opts.FromBlock = &start
	}

	w := &EventWatcher{
		bridge:   b,
		opts:     opts,
		config:   cfg,
		log:      log,
		registry: listener.NewRegistry(log),
	}
	terminal := func(ev event.ContractEvent) *event.ContractEvent {
		w.registry.Dispatch(ev)
		return &ev
	}
	w.dispatch = middleware.Chain(terminal, cfg.Middleware...)
	return w
}

// On registers a callback for the named event.
func (w *EventWatcher) On(name string, fn listener.Callback) *listener.Registration {
	return w.registry.On(name, fn)
}

// OnAll registers a wildcard callback that receives every event.
func (w *EventWatcher) OnAll(fn listener.Callback) *listener.Registration {
	return w.registry.On(listener.Wildcard, fn)
}

// Off removes every callback registered for the named event.
func (w *EventWatcher) Off(name string) {
	w.registry.Off(name)
}

// RemoveAllListeners clears the registry.
func (w *EventWatcher) RemoveAllListeners() {
	w.registry.Clear()
}

// OnError registers a callback for follow-mode poll failures.
func (w *EventWatcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Start runs the watcher. At most one run may be active per instance; a
// concurrent Start returns ErrAlreadyRunning without touching the bridge.
//
// In historical mode Start performs exactly one bridge call, dispatches the
// returned events in order and returns, propagating any bridge error. In
// follow mode it polls until Stop is called, reporting bridge errors through
// OnError instead of returning them.
func (w *EventWatcher) Start() error {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.state = StateRunning
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	defer w.setState(StateIdle)

	if !w.opts.Follow {
		return w.fetchOnce()
	}

	w.followLoop(stop)
	return nil
}

// Stop requests a cooperative stop. The watcher is observably not running
// from this point on, but an in-flight bridge call still completes and the
// loop exits at its next boundary. No-op when not running.
func (w *EventWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateRunning {
		return
	}
	w.state = StateStopping
	close(w.stopCh)
}

// IsRunning reports whether the watcher is between a successful Start and
// the loop's transition back to idle, with no stop pending.
func (w *EventWatcher) IsRunning() bool {
	return w.currentState() == StateRunning
}

// State returns the current lifecycle state.
func (w *EventWatcher) State() State {
	return w.currentState()
}

// fetchOnce is historical mode: a single exchange, then done.
func (w *EventWatcher) fetchOnce() error {
	events, err := w.bridge.Watch(context.Background(), bridge.WatchParams{
		Address:   w.opts.Address,
		Event:     w.opts.Event,
		Network:   w.opts.Network,
		Follow:    false,
		Limit:     w.opts.Limit,
		FromBlock: w.opts.FromBlock,
	})
	if err != nil {
		return err
	}
	for _, ev := range events {
		w.dispatch(ev)
	}
	return nil
}

func (w *EventWatcher) followLoop(stop <-chan struct{}) {
	failures := 0
	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := w.poll(); err != nil {
			failures++
			w.log.Warn("bridge poll failed, retrying",
				"network", w.opts.Network,
				"address", w.opts.Address,
				"failures", failures,
				"err", err,
			)
			w.emitError(err)

			delay, ok := w.config.ErrorRetry.Next(failures)
			if !ok {
				delay = fallbackErrorDelay
			}
			if !w.wait(stop, delay) {
				return
			}
			continue
		}
		failures = 0

		if !w.wait(stop, w.config.PollInterval) {
			return
		}
	}
}

// poll performs one follow-mode exchange and advances the cursor past the
// last delivered event. An empty batch leaves the cursor untouched so the
// next poll re-checks the same window.
func (w *EventWatcher) poll() error {
	limit := w.opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	events, err := w.bridge.Watch(context.Background(), bridge.WatchParams{
		Address:   w.opts.Address,
		Event:     w.opts.Event,
		Network:   w.opts.Network,
		Follow:    true,
		Limit:     limit,
		FromBlock: w.opts.FromBlock,
	})
	if err != nil {
		return err
	}

	for _, ev := range events {
		w.dispatch(ev)
	}

	if len(events) > 0 {
		next := events[len(events)-1].BlockNumber + 1
		w.opts.FromBlock = &next
	}
	return nil
}

// wait sleeps for d, returning false if a stop was requested during the wait.
func (w *EventWatcher) wait(stop <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}

func (w *EventWatcher) emitError(err error) {
	w.mu.Lock()
	fn := w.onError
	w.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (w *EventWatcher) currentState() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *EventWatcher) setState(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
}
