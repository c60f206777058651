// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a private prometheus registry and the shop collectors.
type Registry struct {
	reg *prometheus.Registry

	SalesRecorded       prometheus.Counter
	SalesFailed         prometheus.Counter
	SaleTxLatencySec    prometheus.Histogram
	Revenue             prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	Reprices            prometheus.Counter
	EventsPublished     *prometheus.CounterVec
	EventHandlerErrors  *prometheus.CounterVec
}

// NewRegistry builds and registers every collector.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	salesRecorded := prometheus.NewCounter(prometheus.CounterOpts{Name: "juicepos_sales_recorded_total"})
	salesFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "juicepos_sales_failed_total"})
	txLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "juicepos_sale_tx_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{Name: "juicepos_revenue_total"})
	sent := prometheus.NewCounter(prometheus.CounterOpts{Name: "juicepos_notifications_sent_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "juicepos_notifications_failed_total"})
	reprices := prometheus.NewCounter(prometheus.CounterOpts{Name: "juicepos_reprices_total"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "juicepos_events_handled_total"}, []string{"handler"})
	handlerErrs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "juicepos_event_handler_errors_total"}, []string{"handler"})

	r.MustRegister(salesRecorded, salesFailed, txLatency, revenue, sent, failed, reprices, published, handlerErrs)
	return &Registry{
		reg:                 r,
		SalesRecorded:       salesRecorded,
		SalesFailed:         salesFailed,
		SaleTxLatencySec:    txLatency,
		Revenue:             revenue,
		NotificationsSent:   sent,
		NotificationsFailed: failed,
		Reprices:            reprices,
		EventsPublished:     published,
		EventHandlerErrors:  handlerErrs,
	}
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
