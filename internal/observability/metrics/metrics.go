package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the scheduling engine. All methods
// are safe on a nil receiver so wiring stays optional in tests.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	conflictsTotal   *prometheus.CounterVec
	staleDropped     prometheus.Counter
	signalsTotal     *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "conflicts_total",
			Help:      "Conflicts detected by the guard",
		}, []string{"kind"}),
		staleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "stale_responses_dropped_total",
			Help:      "Superseded fetch responses discarded",
		}),
		signalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "agenda",
			Name:      "signals_total",
			Help:      "Agenda-full signal writes by action",
		}, []string{"action"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "interviews",
			Name:      "status_transitions_total",
			Help:      "Interview status transitions by target and result",
		}, []string{"target", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.conflictsTotal, m.staleDropped, m.signalsTotal, m.transitionsTotal)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveConflict(kind string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(kind).Inc()
}

func (m *BookingMetrics) ObserveStaleDropped() {
	if m == nil {
		return
	}
	m.staleDropped.Inc()
}

func (m *BookingMetrics) ObserveSignal(action string) {
	if m == nil {
		return
	}
	m.signalsTotal.WithLabelValues(action).Inc()
}

func (m *BookingMetrics) ObserveTransition(target, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(target, result).Inc()
}
