package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SeatsReserved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_seats_reserved_total",
			Help: "Number of seats reserved on trips",
		},
	)

	SeatsReleased = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_seats_released_total",
			Help: "Number of seats released back to trips",
		},
	)

	OverReleases = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_over_release_total",
			Help: "Releases that would have pushed available seats above capacity",
		},
	)

	ConflictRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_conflict_retries_total",
			Help: "Optimistic concurrency conflicts retried, by ledger",
		},
		[]string{"ledger"},
	)

	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Number of bookings accepted",
		},
	)

	BookingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Number of booking requests rejected, by reason",
		},
		[]string{"reason"},
	)

	BookingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_create_duration_seconds",
			Help:    "Time taken to accept or reject a booking",
			Buckets: prometheus.DefBuckets,
		},
	)

	CreditsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credits_moved_total",
			Help: "Credits purchased, spent or refunded",
		},
		[]string{"type"},
	)

	PromotionsPurchased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promotions_purchased_total",
			Help: "Promotions purchased, by type",
		},
		[]string{"type"},
	)
)

func Register() {
	prometheus.MustRegister(
		SeatsReserved,
		SeatsReleased,
		OverReleases,
		ConflictRetries,
		BookingsCreated,
		BookingsRejected,
		BookingDuration,
		CreditsMoved,
		PromotionsPurchased,
	)
}
