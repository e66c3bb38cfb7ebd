package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for checklist resolution.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	// Resolutions by outcome: "ok", "not_found", "missing_reference_date", "error"
	Resolutions *prometheus.CounterVec

	// Requirement statuses emitted across all resolutions
	RequirementStatus *prometheus.CounterVec

	// Rules excluded by the skip policy, by reason
	RulesExcluded *prometheus.CounterVec

	// Repository fetch latencies by source
	RepositoryLatency *prometheus.HistogramVec

	// Template cache lookups by result: "hit", "miss"
	TemplateCache *prometheus.CounterVec

	ResolveLatency prometheus.Histogram
	BatchLatency   prometheus.Histogram
	BatchSize      prometheus.Histogram
}

// New creates a new Metrics instance with all checklist metrics registered.
func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docket_checklist_resolutions_total",
			Help: "Total checklist resolutions by outcome",
		}, []string{"outcome"}),

		RequirementStatus: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docket_checklist_requirement_status_total",
			Help: "Resolved requirements by status",
		}, []string{"status"}),

		RulesExcluded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docket_checklist_rules_excluded_total",
			Help: "Rules excluded from a checklist because they failed to evaluate",
		}, []string{"reason"}),

		RepositoryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docket_checklist_repository_duration_seconds",
			Help:    "Duration of repository fetches by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"source"}), // source: "templates", "subject", "submissions"

		TemplateCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docket_template_cache_lookups_total",
			Help: "Template cache lookups by result",
		}, []string{"result"}),

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "docket_checklist_resolve_duration_seconds",
			Help:    "Duration of a single-subject resolution including repository fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		BatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "docket_checklist_batch_duration_seconds",
			Help:    "Duration of batch resolutions",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "docket_checklist_batch_subjects",
			Help:    "Number of subjects per batch resolution",
			Buckets: []float64{1, 10, 50, 100, 250, 500},
		}),
	}
}

// IncrementResolution records a resolution outcome.
func (m *Metrics) IncrementResolution(outcome string) {
	if m != nil {
		m.Resolutions.WithLabelValues(outcome).Inc()
	}
}

// IncrementStatus records one emitted requirement status.
func (m *Metrics) IncrementStatus(status string) {
	if m != nil {
		m.RequirementStatus.WithLabelValues(status).Inc()
	}
}

// IncrementRuleExcluded records a rule dropped by the skip policy.
func (m *Metrics) IncrementRuleExcluded(reason string) {
	if m != nil {
		m.RulesExcluded.WithLabelValues(reason).Inc()
	}
}

// ObserveRepositoryLatency records the duration of fetching from a source.
func (m *Metrics) ObserveRepositoryLatency(source string, d time.Duration) {
	if m != nil {
		m.RepositoryLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// RecordCacheHit records a template cache hit.
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.TemplateCache.WithLabelValues("hit").Inc()
	}
}

// RecordCacheMiss records a template cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.TemplateCache.WithLabelValues("miss").Inc()
	}
}

// ObserveResolve records a single-subject resolution duration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveResolve(start time.Time) {
	if m != nil {
		m.ResolveLatency.Observe(time.Since(start).Seconds())
	}
}

// ObserveBatch records a batch's duration and size.
func (m *Metrics) ObserveBatch(start time.Time, subjects int) {
	if m != nil {
		m.BatchLatency.Observe(time.Since(start).Seconds())
		m.BatchSize.Observe(float64(subjects))
	}
}
