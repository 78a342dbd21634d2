package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scan outcomes used as the result label.
const (
	ScanMatched  = "matched"
	ScanNotFound = "not_found"
	ScanRejected = "rejected"
)

// DashboardMetrics covers the operations dashboard: order status moves,
// scans, the live low-stock alert count and snapshot write failures.
type DashboardMetrics struct {
	transitions     *prometheus.CounterVec
	scans           *prometheus.CounterVec
	lowStock        prometheus.Gauge
	persistFailures prometheus.Counter
}

func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	if reg == nil {
		return &DashboardMetrics{}
	}
	m := &DashboardMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "order_transitions_total",
			Help:      "Order status changes by source and target status.",
		}, []string{"from", "to"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "scans_total",
			Help:      "Barcode scans by result.",
		}, []string{"result"}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "low_stock_alerts",
			Help:      "Current number of low stock alerts.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "snapshot_persist_failures_total",
			Help:      "Snapshot writes that failed.",
		}),
	}
	reg.MustRegister(m.transitions, m.scans, m.lowStock, m.persistFailures)
	return m
}

// ObserveTransition counts a status change. Repeats of the same status are ignored.
func (m *DashboardMetrics) ObserveTransition(from, to string) {
	if m == nil || m.transitions == nil || from == to {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (m *DashboardMetrics) ObserveScan(result string) {
	if m == nil || m.scans == nil {
		return
	}
	m.scans.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *DashboardMetrics) SetLowStockAlerts(n int) {
	if m == nil || m.lowStock == nil {
		return
	}
	m.lowStock.Set(float64(n))
}

func (m *DashboardMetrics) IncPersistFailure() {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.Inc()
}
