package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead submission pipeline and
// the CRM relay endpoint. All Observe* methods are nil-safe so callers can run
// without metrics wired.
type LeadMetrics struct {
	submissionsTotal      *prometheus.CounterVec
	deliveryAttemptsTotal *prometheus.CounterVec
	relayRequestsTotal    *prometheus.CounterVec
	upstreamLatency       *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urjavolt",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Terminal submission outcomes by delivery method",
		}, []string{"method", "outcome"}),
		deliveryAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urjavolt",
			Subsystem: "leads",
			Name:      "delivery_attempts_total",
			Help:      "Individual delivery attempts by method and result",
		}, []string{"method", "result"}),
		relayRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urjavolt",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Relay endpoint responses by status code",
		}, []string{"status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "urjavolt",
			Subsystem: "relay",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of upstream CRM API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.deliveryAttemptsTotal, m.relayRequestsTotal, m.upstreamLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(method string, success bool) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(method, outcomeLabel(success)).Inc()
}

func (m *LeadMetrics) ObserveDeliveryAttempt(method string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.deliveryAttemptsTotal.WithLabelValues(method, result).Inc()
}

func (m *LeadMetrics) ObserveRelayRequest(status string) {
	if m == nil {
		return
	}
	m.relayRequestsTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveUpstreamLatency(success bool, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(outcomeLabel(success)).Observe(seconds)
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
