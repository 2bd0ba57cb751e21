package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment finalization attempts by outcome",
		},
		[]string{"outcome"},
	)

	expiredBookingsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_bookings_cleaned_total",
			Help: "Expired reservations reclaimed by the sweep",
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordReservation counts a reservation attempt. Outcome is one of
// success, rejected, invalid, error.
func RecordReservation(outcome string) {
	reservationsTotal.WithLabelValues(outcome).Inc()
}

// RecordPayment counts a payment finalization attempt.
func RecordPayment(outcome string) {
	paymentsTotal.WithLabelValues(outcome).Inc()
}

// RecordCleanup counts reservations reclaimed by an expiry sweep.
func RecordCleanup(cleaned int) {
	expiredBookingsCleaned.Add(float64(cleaned))
}

// RequestMetrics is a gin middleware observing per-route request latency.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
