package files

import "sync/atomic"

// Counter names as reported by the metrics endpoint.
const (
	MetricTotal        = "total_uploads"
	MetricSuccessful   = "successful_uploads"
	MetricFailed       = "failed_uploads"
	MetricUnauthorized = "unauthorized_uploads"
)

// UploadMetrics tracks upload outcomes for the process lifetime.
// Increments are atomic, so concurrent requests never lose updates; a
// snapshot reflects every increment completed before it was taken.
type UploadMetrics struct {
	total        atomic.Int64
	successful   atomic.Int64
	failed       atomic.Int64
	unauthorized atomic.Int64
}

// NewUploadMetrics creates a zeroed counter set.
func NewUploadMetrics() *UploadMetrics {
	return &UploadMetrics{}
}

// IncrTotal counts a request entering the pipeline.
func (m *UploadMetrics) IncrTotal() { m.total.Add(1) }

// IncrSuccessful counts a fully persisted upload.
func (m *UploadMetrics) IncrSuccessful() { m.successful.Add(1) }

// IncrFailed counts a request that failed for reasons other than a
// type/MIME rejection.
func (m *UploadMetrics) IncrFailed() { m.failed.Add(1) }

// IncrUnauthorized counts a type or MIME rejection.
func (m *UploadMetrics) IncrUnauthorized() { m.unauthorized.Add(1) }

// Snapshot returns the current counter values.
func (m *UploadMetrics) Snapshot() map[string]int64 {
	return map[string]int64{
		MetricTotal:        m.total.Load(),
		MetricSuccessful:   m.successful.Load(),
		MetricFailed:       m.failed.Load(),
		MetricUnauthorized: m.unauthorized.Load(),
	}
}
