package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service's Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter
	OrdersCompleted prometheus.Counter
	QueueDepth      *prometheus.GaugeVec
	EventsPublished prometheus.Counter
	PushFailures    prometheus.Counter
}

// NewRegistry creates and registers all collectors.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "printshop_orders_created_total"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "printshop_orders_cancelled_total"})
	completed := prometheus.NewCounter(prometheus.CounterOpts{Name: "printshop_orders_completed_total"})
	queueDepth := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "printshop_printer_queue_depth"},
		[]string{"printer_id"},
	)
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "printshop_realtime_events_published_total"})
	pushFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "printshop_push_failures_total"})

	r.MustRegister(created, cancelled, completed, queueDepth, published, pushFailures)
	return &Registry{
		reg:             r,
		OrdersCreated:   created,
		OrdersCancelled: cancelled,
		OrdersCompleted: completed,
		QueueDepth:      queueDepth,
		EventsPublished: published,
		PushFailures:    pushFailures,
	}
}

// Handler returns the HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
