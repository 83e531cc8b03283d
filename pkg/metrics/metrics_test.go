package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test-svc", prometheus.NewRegistry())

	m.IncBookingCreated("pending")
	m.IncBookingCreated("pending")
	m.IncBookingConflict("slot_taken")
	m.AddSlotsCreated("recurring", 12)
	m.AddSlotsCreated("recurring", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("test-svc", "pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingConflicts.WithLabelValues("test-svc", "slot_taken")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.SlotsCreated.WithLabelValues("test-svc", "recurring")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBookingCreated("pending")
		m.IncBookingConflict("slot_taken")
		m.AddSlotsCreated("single", 1)
		m.IncEventsDropped()
		m.IncJobRun("purge", "ok")
		m.IncRateLimited()
	})
	assert.Equal(t, "", m.ServiceName())
}
