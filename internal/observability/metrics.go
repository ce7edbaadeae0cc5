// Package observability exposes Prometheus metrics for the kiosk backend.
package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_card_scans_total",
		Help: "Total number of card scans received.",
	})

	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_sessions_started_total",
		Help: "Total number of workout sessions opened.",
	})

	SessionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_session_conflicts_total",
		Help: "Total number of start attempts rejected because a session was already open.",
	})

	SessionsEndedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_sessions_ended_total",
		Help: "Total number of workout sessions closed.",
	})

	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_store_errors_total",
		Help: "Total number of persistence failures, by operation.",
	}, []string{"op"})

	SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiosk_session_duration_seconds",
		Help:    "Duration of completed workout sessions.",
		Buckets: []float64{60, 300, 600, 900, 1800, 2700, 3600, 5400, 7200},
	})
)

func RecordScan() {
	ScansTotal.Inc()
}

func RecordSessionStarted() {
	SessionsStartedTotal.Inc()
}

func RecordSessionConflict() {
	SessionConflictsTotal.Inc()
}

// RecordSessionEnded counts a closed session and observes its duration.
func RecordSessionEnded(d time.Duration) {
	SessionsEndedTotal.Inc()
	SessionDuration.Observe(d.Seconds())
}

func RecordStoreError(op string) {
	StoreErrorsTotal.WithLabelValues(op).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
