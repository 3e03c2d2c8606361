package occupancy

import (
	"time"

	"hotelops/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindReservations = "reservations"
	kindRooms        = "rooms"
)

// Metrics holds the Prometheus collectors for reconciliation and availability.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ReconcileChanges    *prometheus.CounterVec
	ReconcileDuration   *prometheus.HistogramVec
	AvailabilityQueries *prometheus.CounterVec
	RoomsByStatus       *prometheus.GaugeVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReconcileChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hotelops",
				Name:      "reconcile_changes_total",
				Help:      "Rows whose status was rewritten by a reconciliation pass.",
			},
			[]string{"kind"},
		),
		ReconcileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hotelops",
				Name:      "reconcile_duration_seconds",
				Help:      "Duration of a reconciliation pass.",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2},
			},
			[]string{"kind"},
		),
		AvailabilityQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hotelops",
				Name:      "availability_queries_total",
				Help:      "Availability searches by outcome.",
			},
			[]string{"result"},
		),
		RoomsByStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "hotelops",
				Name:      "rooms_by_status",
				Help:      "Rooms per status after the last room reconciliation.",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) observePass(kind string, started time.Time, changed int) {
	if m == nil {
		return
	}
	m.ReconcileDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	m.ReconcileChanges.WithLabelValues(kind).Add(float64(changed))
}

func (m *Metrics) incAvailability(result string) {
	if m == nil {
		return
	}
	m.AvailabilityQueries.WithLabelValues(result).Inc()
}

func (m *Metrics) setRoomCounts(counts map[domain.RoomStatus]int) {
	if m == nil {
		return
	}
	for _, st := range []domain.RoomStatus{domain.RoomAvailable, domain.RoomOccupied, domain.RoomBlocked} {
		m.RoomsByStatus.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}
