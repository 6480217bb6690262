// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "examstyle"

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	fields   *prometheus.CounterVec
	warnings prometheus.Counter
	hoisted  prometheus.Counter
	jobs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates the collectors on a fresh registry along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		fields: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_validated_total",
			Help:      "Text fields whose style ranges were validated, by result.",
		}, []string{"result"}),
		warnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "range_warnings_total",
			Help:      "Quality warnings raised while validating style ranges.",
		}),
		hoisted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_hoisted_total",
			Help:      "Paragraph annotations or indents moved out of style ranges.",
		}),
		jobs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_jobs_total",
			Help:      "Finished import jobs, by final status.",
		}, []string{"status"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_job_duration_seconds",
			Help:      "Wall time spent processing an import job.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}
}

// ObserveField records one validated field.
func (m *Metrics) ObserveField(valid bool, warnings int) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.fields.WithLabelValues(result).Inc()
	if warnings > 0 {
		m.warnings.Add(float64(warnings))
	}
}

// ObserveHoisted records n metadata values moved to paragraph level.
func (m *Metrics) ObserveHoisted(n int) {
	m.hoisted.Add(float64(n))
}

// ObserveJob records a finished import job.
func (m *Metrics) ObserveJob(status string, elapsed time.Duration) {
	m.jobs.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
