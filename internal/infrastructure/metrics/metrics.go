// Package metrics exposes Prometheus counters for the booking engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lab_booking"

// Recorder counts engine events. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry             *prometheus.Registry
	transitions          *prometheus.CounterVec
	transitionConflicts  *prometheus.CounterVec
	pricingMissing       prometheus.Counter
	notificationsSent    *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions committed, by origin and target status.",
		}, []string{"from", "to"}),
		transitionConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transition_conflicts_total",
			Help:      "Transitions rejected because another writer changed the status first.",
		}, []string{"to"}),
		pricingMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_missing_total",
			Help:      "Normalizations that failed because no effective price exists.",
		}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Notifications delivered, by event.",
		}, []string{"event"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be delivered, by event.",
		}, []string{"event"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.transitions,
		r.transitionConflicts,
		r.pricingMissing,
		r.notificationsSent,
		r.notificationFailures,
	)
	return r
}

func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) TransitionConflict(to string) {
	if r == nil {
		return
	}
	r.transitionConflicts.WithLabelValues(to).Inc()
}

func (r *Recorder) PricingMissing() {
	if r == nil {
		return
	}
	r.pricingMissing.Inc()
}

func (r *Recorder) NotificationSent(event string) {
	if r == nil {
		return
	}
	r.notificationsSent.WithLabelValues(event).Inc()
}

func (r *Recorder) NotificationFailed(event string) {
	if r == nil {
		return
	}
	r.notificationFailures.WithLabelValues(event).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
