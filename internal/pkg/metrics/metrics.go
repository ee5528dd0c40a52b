package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ChannelPublic = "public"
	ChannelStaff  = "staff"
	ChannelToken  = "token"

	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// BookingMetrics exposes counters/histograms for the booking core.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	reservations   *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	slotGeneration *prometheus.HistogramVec
	slotsOffered   prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "reservations_total",
			Help:      "Create and reschedule attempts by channel, operation and outcome",
		}, []string{"channel", "operation", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status changes by target status",
		}, []string{"channel", "status"}),
		slotGeneration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "slot_generation_seconds",
			Help:      "Latency of available slot generation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		slotsOffered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "slots_offered",
			Help:      "Number of free slots returned per availability request",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservations, m.transitions, m.slotGeneration, m.slotsOffered)
	return m
}

func (m *BookingMetrics) ObserveReservation(channel, operation, outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(channel, operation, outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(channel, status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(channel, status).Inc()
}

func (m *BookingMetrics) ObserveSlotGeneration(outcome string, seconds float64, offered int) {
	if m == nil {
		return
	}
	m.slotGeneration.WithLabelValues(outcome).Observe(seconds)
	if outcome == OutcomeSuccess {
		m.slotsOffered.Observe(float64(offered))
	}
}
