package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ehotels",
			Name:      "sign_in_total",
			Help:      "Count of successful sign-ins by role.",
		},
		[]string{"role"},
	)

	signUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ehotels",
			Name:      "sign_up_total",
			Help:      "Count of client sign-ups.",
		},
	)

	reservations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ehotels",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	locations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ehotels",
			Name:      "location_created_total",
			Help:      "Count of walk-in locations recorded.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ehotels",
			Name:      "booking_conflict_total",
			Help:      "Count of bookings rejected for an overlapping interval.",
		},
	)

	roomSearches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ehotels",
			Name:      "room_search_total",
			Help:      "Count of room availability searches.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(signIns, signUps, reservations, locations, bookingConflicts, roomSearches)
	})
}

func IncSignIn(role string) { signIns.WithLabelValues(role).Inc() }

func IncSignUp() { signUps.Inc() }

func IncReservationCreated() { reservations.Inc() }

func IncLocationCreated() { locations.Inc() }

func IncBookingConflict() { bookingConflicts.Inc() }

func IncRoomSearch() { roomSearches.Inc() }
