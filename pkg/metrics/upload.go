package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload outcomes recorded by UploadMetrics.
const (
	OutcomeDistributed = "distributed"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
)

// UploadMetrics records the lead upload pipeline.
type UploadMetrics struct {
	uploads  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	perAgent prometheus.Histogram
	duration prometheus.Histogram
}

// NewUploadMetrics registers the upload metrics on the provided registerer.
func NewUploadMetrics(reg prometheus.Registerer) *UploadMetrics {
	if reg == nil {
		return &UploadMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_total",
		Help: "Lead file uploads by outcome.",
	}, []string{"outcome"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_rows_total",
		Help: "Rows seen by the upload pipeline, split into kept and dropped.",
	}, []string{"result"})
	perAgent := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "upload_tasks_per_agent",
		Help:    "Tasks assigned to each working agent by one upload.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "upload_duration_seconds",
		Help:    "Time spent parsing, distributing and persisting one upload.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(uploads, rows, perAgent, duration)
	return &UploadMetrics{
		uploads:  uploads,
		rows:     rows,
		perAgent: perAgent,
		duration: duration,
	}
}

// ObserveUpload records the outcome and duration of one upload.
func (u *UploadMetrics) ObserveUpload(outcome string, duration time.Duration) {
	if u == nil || u.uploads == nil {
		return
	}
	u.uploads.WithLabelValues(labelOrUnknown(outcome)).Inc()
	u.duration.Observe(duration.Seconds())
}

// AddRows records how many rows were kept and dropped by normalization.
func (u *UploadMetrics) AddRows(kept, dropped int) {
	if u == nil || u.rows == nil {
		return
	}
	u.rows.WithLabelValues("kept").Add(float64(kept))
	u.rows.WithLabelValues("dropped").Add(float64(dropped))
}

// ObserveAgentLoad records the task count handed to one agent.
func (u *UploadMetrics) ObserveAgentLoad(tasks int) {
	if u == nil || u.perAgent == nil {
		return
	}
	u.perAgent.Observe(float64(tasks))
}
