package retry

import "time"

// Fixed waits a constant delay between attempts and never gives up.
// It is the default policy for follow-mode polling, which favors
// availability over fail-fast: the bridge being briefly unreachable
// should add latency, not terminate the watch.
type Fixed struct {
	// Delay between attempts.
	Delay time.Duration
}

// NewFixed creates a constant-delay strategy.
func NewFixed(d time.Duration) *Fixed {
	return &Fixed{Delay: d}
}

// Next always allows another attempt after the fixed delay.
func (f *Fixed) Next(attempt int) (time.Duration, bool) {
	return f.Delay, true
}
