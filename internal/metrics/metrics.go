// Package metrics holds the Prometheus instruments used by the pin engine
// and the live feed.  All collectors are registered with the global
// registry, so mounting promhttp.Handler() in main.go exposes them on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActivePins = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trio_active_pins",
			Help: "Number of pins returned by the last listing.",
		})

	PinsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trio_pins_created_total",
			Help: "Cumulative number of pins created.",
		})

	PinsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trio_pins_expired_total",
			Help: "Cumulative number of expired pins removed by the lazy sweep.",
		})

	PinsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trio_pins_deleted_total",
			Help: "Cumulative number of pins deleted by an administrator.",
		})

	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trio_reports_total",
			Help: "Cumulative number of recorded reports by type.",
		}, []string{"type"})

	FencedConfirmsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trio_fenced_confirms_total",
			Help: "Confirms ignored because the user already contributed to the pin.",
		})

	PinShiftMeters = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trio_pin_shift_meters",
			Help:    "Distance a pin moved on each recomputation.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		})

	LiveClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trio_live_clients",
			Help: "Number of connected live-map websocket clients.",
		})

	BrokerPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trio_broker_publish_errors_total",
			Help: "Cumulative number of failed pin event publications.",
		})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trio_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(
		ActivePins,
		PinsCreatedTotal,
		PinsExpiredTotal,
		PinsDeletedTotal,
		ReportsTotal,
		FencedConfirmsTotal,
		PinShiftMeters,
		LiveClients,
		BrokerPublishErrorsTotal,
		HTTPRequestDuration,
	)
}
