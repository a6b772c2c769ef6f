package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulingMetrics exposes counters/histograms for slot publishing and
// appointment completion.
type SchedulingMetrics struct {
	slotsTotal        *prometheus.CounterVec
	completionsTotal  *prometheus.CounterVec
	deliveriesTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		slotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "schedule",
			Name:      "slots_total",
			Help:      "Requested slots by publish result",
		}, []string{"result"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "completions_total",
			Help:      "Remedy completions by outcome",
		}, []string{"outcome"}),
		deliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "remedy",
			Name:      "deliveries_total",
			Help:      "Remedy deliveries by status",
		}, []string{"status"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Name:      "operation_duration_seconds",
			Help:      "Latency of scheduling operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotsTotal, m.completionsTotal, m.deliveriesTotal, m.operationDuration)
	return m
}

func (m *SchedulingMetrics) ObservePublish(created, skipped int) {
	if m == nil {
		return
	}
	m.slotsTotal.WithLabelValues("created").Add(float64(created))
	m.slotsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *SchedulingMetrics) ObserveCompletion(outcome string) {
	if m == nil {
		return
	}
	m.completionsTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveDelivery(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.deliveriesTotal.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
