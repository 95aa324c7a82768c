package notifier

import (
	"medreminder/internal/domain/constant"

	"github.com/prometheus/client_golang/prometheus"
)

// Delivery outcomes recorded in the delivered counter.
const (
	resultDelivered  = "delivered"
	resultFailed     = "failed"
	resultSuppressed = "suppressed"
)

// Metrics holds the notifier's Prometheus counters.
type Metrics struct {
	scheduled *prometheus.CounterVec
	cancelled prometheus.Counter
	delivered *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_notifications_scheduled_total",
			Help: "Notifications scheduled, by trigger type.",
		}, []string{"trigger"}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_notifications_cancelled_total",
			Help: "Pending notifications cancelled.",
		}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_notifications_delivered_total",
			Help: "Notification firings, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.scheduled, m.cancelled, m.delivered)
	return m
}

func (m *Metrics) observeScheduled(t constant.TriggerType) {
	m.scheduled.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) observeCancelled() {
	m.cancelled.Inc()
}

func (m *Metrics) observeDelivery(result string) {
	m.delivered.WithLabelValues(result).Inc()
}
