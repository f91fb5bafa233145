package telegram

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the prometheus collectors a Client and its Pollers report
// into. Create one per registry and share it across the Clients that should
// aggregate together.
type Metrics struct {
	// Calls counts Bot API calls by method and outcome
	// (ok, rejected, transport, malformed).
	Calls *prometheus.CounterVec

	// CallDuration observes the wall time of each call, including flood-control
	// waits, by method.
	CallDuration *prometheus.HistogramVec

	// Updates counts updates received through polling.
	Updates prometheus.Counter

	// PollErrors counts failed poll cycles observed by listeners.
	PollErrors prometheus.Counter
}

// NewMetrics creates the collectors and, when reg is non-nil, registers them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tgwire",
			Subsystem: "api",
			Name:      "calls_total",
			Help:      "Bot API calls by method and outcome.",
		}, []string{"method", "outcome"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tgwire",
			Subsystem: "api",
			Name:      "call_duration_seconds",
			Help:      "Bot API call duration by method.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method"}),
		Updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tgwire",
			Name:      "updates_received_total",
			Help:      "Updates received through polling.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tgwire",
			Name:      "poll_errors_total",
			Help:      "Failed getUpdates poll cycles.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.CallDuration, m.Updates, m.PollErrors)
	}
	return m
}
