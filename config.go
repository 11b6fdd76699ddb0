package forgewatch

import (
	"time"

	"github.com/glin-ai/forgewatch/retry"
)

// Config holds the global configuration for a Client.
type Config struct {
	// Port is the local port the bridge process listens on.
	Port int

	// PollInterval is the delay between successful follow-mode polls.
	PollInterval time.Duration

	// ErrorRetry computes the delay after a failed follow-mode poll.
	ErrorRetry retry.Strategy
}

// DefaultConfig returns the nominal configuration: poll every second,
// back off for five seconds after a bridge failure.
func DefaultConfig() Config {
	return Config{
		PollInterval: 1 * time.Second,
		ErrorRetry:   retry.NewFixed(5 * time.Second),
	}
}
