package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated counts booking requests by outcome
	// (created, not_found, conflict, invalid, error).
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_bookings_total",
			Help: "Booking requests by outcome",
		},
		[]string{"outcome"},
	)

	BookingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tour_booking_duration_seconds",
			Help:    "Duration of the booking workflow in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DiscountEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_discount_evaluations_total",
			Help: "Discount code evaluations by result reason (ok when valid)",
		},
		[]string{"reason"},
	)

	OutboxDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_outbox_dispatched_total",
			Help: "Outbox deliveries by kind and status",
		},
		[]string{"kind", "status"},
	)

	LiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tour_notification_connections",
			Help: "Admin clients connected to the live notification channel",
		},
	)
)

func RecordBooking(outcome string, seconds float64) {
	BookingsCreated.WithLabelValues(outcome).Inc()
	BookingDuration.Observe(seconds)
}

func RecordDiscount(reason string) {
	if reason == "" {
		reason = "ok"
	}
	DiscountEvaluations.WithLabelValues(reason).Inc()
}

func RecordOutbox(kind, status string) {
	OutboxDispatched.WithLabelValues(kind, status).Inc()
}
