// Package metrics exposes Prometheus collectors for the reservation
// service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "littlelemon",
			Name:      "booking_created_total",
			Help:      "Count of bookings admitted.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "littlelemon",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	validationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "littlelemon",
			Name:      "validation_failed_total",
			Help:      "Count of rejected submissions by field.",
		},
		[]string{"field"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "littlelemon",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	storedBookings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "littlelemon",
			Name:      "stored_bookings",
			Help:      "Current number of bookings in the store.",
		},
	)
)

// Register registers all collectors with the default registry. Safe to
// call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingCreated,
			bookingCancelled,
			validationFailed,
			httpRequests,
			storedBookings,
		)
	})
}

// IncBookingCreated increments the created counter.
func IncBookingCreated() {
	bookingCreated.Inc()
}

// IncBookingCancelled increments the cancelled counter.
func IncBookingCancelled() {
	bookingCancelled.Inc()
}

// IncValidationFailed records a rejected submission for a field.
func IncValidationFailed(field string) {
	validationFailed.WithLabelValues(field).Inc()
}

// IncHTTP records one API request for an endpoint.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// SetStoredBookings updates the store size gauge.
func SetStoredBookings(n int) {
	storedBookings.Set(float64(n))
}
