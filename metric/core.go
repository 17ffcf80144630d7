package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the pub/sub data-path metrics.
type Metrics struct {
	// MessagesPublished counts successful publishes by transport and topic.
	MessagesPublished *prometheus.CounterVec
	// MessagesReceived counts validated deliveries by transport and message type.
	MessagesReceived *prometheus.CounterVec
	// MessagesDropped counts receive-path drops by transport and reason
	// ("malformed", "buffer_full").
	MessagesDropped *prometheus.CounterVec
	// SendErrors counts failed transport sends by transport.
	SendErrors *prometheus.CounterVec
	// OpenConnections tracks live connections by transport and role
	// ("publisher", "subscriber").
	OpenConnections *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all data-path metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wheelchock",
				Subsystem: "messages",
				Name:      "published_total",
				Help:      "Total number of messages published",
			},
			[]string{"transport", "topic"},
		),

		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wheelchock",
				Subsystem: "messages",
				Name:      "received_total",
				Help:      "Total number of validated messages received",
			},
			[]string{"transport", "type"},
		),

		MessagesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wheelchock",
				Subsystem: "messages",
				Name:      "dropped_total",
				Help:      "Total number of messages dropped on the receive path",
			},
			[]string{"transport", "reason"},
		),

		SendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wheelchock",
				Subsystem: "transport",
				Name:      "send_errors_total",
				Help:      "Total number of failed transport sends",
			},
			[]string{"transport"},
		),

		OpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wheelchock",
				Subsystem: "transport",
				Name:      "open_connections",
				Help:      "Number of currently open transport connections",
			},
			[]string{"transport", "role"},
		),
	}
}

// Register registers all core metrics with a Prometheus registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{
		m.MessagesPublished,
		m.MessagesReceived,
		m.MessagesDropped,
		m.SendErrors,
		m.OpenConnections,
	} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
