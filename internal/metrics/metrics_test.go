package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSchedulingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObservePublish(2, 1)
	m.ObservePublish(0, 3)
	m.ObserveCompletion("completed")
	m.ObserveDelivery(nil)
	m.ObserveDelivery(errors.New("down"))
	m.ObserveDuration("publish", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotsTotal.WithLabelValues("created")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.slotsTotal.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completionsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveriesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveriesTotal.WithLabelValues("ok")))
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObservePublish(1, 1)
	m.ObserveCompletion("completed")
	m.ObserveDelivery(nil)
	m.ObserveDuration("publish", time.Now())
}
