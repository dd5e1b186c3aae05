package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics tracks maintenance job runs by job name.
type CronJobMetrics struct {
	duration  *prometheus.HistogramVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewCronJobMetrics registers on reg. A nil reg yields a no-op recorder.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cron_job_duration_seconds",
			Help:    "Wall time of cron job runs.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 30, 120},
		}, []string{"job"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cron_job_successes_total",
			Help: "Cron job runs that returned no error.",
		}, []string{"job"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cron_job_failures_total",
			Help: "Cron job runs that returned an error.",
		}, []string{"job"}),
	}
	reg.MustRegister(m.duration, m.successes, m.failures)
	return m
}

func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(labelOrUnknown(job)).Observe(duration.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.successes == nil {
		return
	}
	c.successes.WithLabelValues(labelOrUnknown(job)).Inc()
}

func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(labelOrUnknown(job)).Inc()
}

func labelOrUnknown(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
