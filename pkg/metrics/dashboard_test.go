package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDashboardMetrics(reg)

	m.ObserveTransition("Pending", "Assigned")
	m.ObserveTransition("Pending", "Assigned")
	m.ObserveTransition("Ready", "Ready")
	m.ObserveScan(ScanMatched)
	m.ObserveScan(ScanNotFound)
	m.SetLowStockAlerts(9)
	m.IncPersistFailure()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	transitions := findMetricFamily(mfs, "darkstore_dashboard_order_transitions_total")
	require.NotNil(t, transitions)
	require.Len(t, transitions.GetMetric(), 1)
	assert.Equal(t, 2.0, transitions.GetMetric()[0].GetCounter().GetValue())

	matched, err := fetchCounterValue(mfs, "darkstore_dashboard_scans_total", "result", ScanMatched)
	require.NoError(t, err)
	assert.Equal(t, 1.0, matched)

	gauge := findMetricFamily(mfs, "darkstore_dashboard_low_stock_alerts")
	require.NotNil(t, gauge)
	assert.Equal(t, 9.0, gauge.GetMetric()[0].GetGauge().GetValue())

	failures := findMetricFamily(mfs, "darkstore_dashboard_snapshot_persist_failures_total")
	require.NotNil(t, failures)
	assert.Equal(t, 1.0, failures.GetMetric()[0].GetCounter().GetValue())
}

func TestDashboardMetricsNilSafe(t *testing.T) {
	var m *DashboardMetrics
	m.ObserveTransition("a", "b")
	m.ObserveScan(ScanRejected)
	m.SetLowStockAlerts(1)
	m.IncPersistFailure()

	NewDashboardMetrics(nil).ObserveScan(ScanMatched)
}
