package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// appointmentTransitions counts lifecycle changes.
	// Labels: transition (booked, cancelled, completed)
	appointmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinic",
		Subsystem: "appointments",
		Name:      "transitions_total",
		Help:      "Appointment lifecycle transitions",
	}, []string{"transition"})

	// appointmentRejections counts lifecycle operations refused by the state machine.
	// Labels: operation (cancel, complete), reason (duplicate_record, invalid_transition)
	appointmentRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinic",
		Subsystem: "appointments",
		Name:      "rejections_total",
		Help:      "Lifecycle operations rejected by the appointment state machine",
	}, []string{"operation", "reason"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clinic",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})
)

func ObserveTransition(transition string) {
	appointmentTransitions.WithLabelValues(transition).Inc()
}

func ObserveRejection(operation, reason string) {
	appointmentRejections.WithLabelValues(operation, reason).Inc()
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
