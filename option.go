package forgewatch

import (
	"log/slog"
	"time"

	"github.com/glin-ai/forgewatch/bridge"
	"github.com/glin-ai/forgewatch/middleware"
	"github.com/glin-ai/forgewatch/retry"
)

// Option configures a Client.
type Option func(*Client)

// WithPort sets the local port of the bridge process.
func WithPort(port int) Option {
	return func(c *Client) {
		c.config.Port = port
	}
}

// WithTransport injects a custom bridge transport, bypassing port resolution.
// Intended for tests and non-standard bridge setups.
func WithTransport(t bridge.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithPollInterval sets the delay between successful follow-mode polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.config.PollInterval = d
	}
}

// WithErrorRetry sets the delay policy applied after failed follow-mode polls.
func WithErrorRetry(s retry.Strategy) Option {
	return func(c *Client) {
		c.config.ErrorRetry = s
	}
}

// WithMiddleware adds middleware to the event dispatch pipeline of every
// watcher created from this client.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// WithLogger sets the logger used by watchers and listener registries.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}
