package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for cart, appointment and
// assistant flows.
type ClinicMetrics struct {
	cartOpsTotal      *prometheus.CounterVec
	appointmentsTotal *prometheus.CounterVec
	assistantTotal    *prometheus.CounterVec
	assistantLatency  *prometheus.HistogramVec
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		cartOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumeskin",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Total cart mutations",
		}, []string{"op"}),
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumeskin",
			Subsystem: "appointments",
			Name:      "events_total",
			Help:      "Total appointment lifecycle events",
		}, []string{"action", "status"}),
		assistantTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumeskin",
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Total AI assistant requests",
		}, []string{"op", "provider", "status"}),
		assistantLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lumeskin",
			Subsystem: "assistant",
			Name:      "latency_seconds",
			Help:      "Latency of AI assistant calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.cartOpsTotal, m.appointmentsTotal, m.assistantTotal, m.assistantLatency)
	return m
}

func (m *ClinicMetrics) ObserveCart(op string) {
	if m == nil {
		return
	}
	m.cartOpsTotal.WithLabelValues(op).Inc()
}

func (m *ClinicMetrics) ObserveAppointment(action, status string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(action, status).Inc()
}

func (m *ClinicMetrics) ObserveAssistant(op, provider, status string) {
	if m == nil {
		return
	}
	m.assistantTotal.WithLabelValues(op, provider, status).Inc()
}

func (m *ClinicMetrics) ObserveAssistantLatency(op string, seconds float64) {
	if m == nil {
		return
	}
	m.assistantLatency.WithLabelValues(op).Observe(seconds)
}
