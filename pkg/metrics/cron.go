package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "darkstore"

// Job run outcomes used as the outcome label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CronJobMetrics tracks the background scheduler.
type CronJobMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	skipped     prometheus.Counter
}

// NewCronJobMetrics returns a recorder that drops everything when reg is nil.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: namespace, Subsystem: "cron", Name: name, Help: help}
	}
	m := &CronJobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts(opts(
			"job_runs_total", "Cron job runs by outcome.")), []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cron",
			Name:      "job_duration_seconds",
			Help:      "Cron job run time.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts(opts(
			"job_last_success_timestamp_seconds", "Unix time of the last successful run.")), []string{"job"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts(opts(
			"cycles_skipped_total", "Cycles skipped because another instance held the lock."))),
	}
	reg.MustRegister(m.runs, m.duration, m.lastSuccess, m.skipped)
	return m
}

// ObserveRun records one job execution; a nil err counts as success.
func (m *CronJobMetrics) ObserveRun(job string, elapsed time.Duration, err error) {
	if m == nil || m.runs == nil {
		return
	}
	job = normalizeLabel(job)
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err != nil {
		m.runs.WithLabelValues(job, OutcomeFailure).Inc()
		return
	}
	m.runs.WithLabelValues(job, OutcomeSuccess).Inc()
	m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

func (m *CronJobMetrics) IncSkipped() {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
