package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/glin-ai/forgewatch/event"
)

// Metrics exports prometheus counters for events flowing through the pipeline.
type Metrics struct {
	processed *prometheus.CounterVec
	dropped   prometheus.Counter
}

// NewMetrics creates a metrics middleware registered against the given
// registerer. A nil registerer uses the prometheus default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		processed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forgewatch_events_processed_total",
				Help: "Contract events delivered to listeners, by event name",
			},
			[]string{"event"},
		),
		dropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "forgewatch_events_dropped_total",
				Help: "Contract events dropped by the middleware pipeline",
			},
		),
	}
}

// Wrap decorates the handler with metrics collection.
func (m *Metrics) Wrap(next Handler) Handler {
	return func(ev event.ContractEvent) *event.ContractEvent {
		result := next(ev)
		if result != nil {
			m.processed.WithLabelValues(ev.EventName).Inc()
		} else {
			m.dropped.Inc()
		}
		return result
	}
}
