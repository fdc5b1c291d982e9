// Package metrics exposes build and lint counters as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultLabel classifies a stage or build outcome.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder is the metrics sink used by the builder and the watch loop.
// A nil *PrometheusRecorder is a valid no-op sink.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(result ResultLabel)
	ObserveStageDuration(stage string, d time.Duration)
	IncLintIssues(rule string, count int)
}

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	once          sync.Once
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	stageDuration *prom.HistogramVec
	lintIssues    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdcombine",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdcombine",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "mdcombine",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual optimization stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.lintIssues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "mdcombine",
			Name:      "lint_issues_total",
			Help:      "Lint issues found, by rule",
		}, []string{"rule"})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.stageDuration, pr.lintIssues)
		reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(result ResultLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLintIssues(rule string, count int) {
	if p == nil || p.lintIssues == nil || count <= 0 {
		return
	}
	p.lintIssues.WithLabelValues(rule).Add(float64(count))
}

// HTTPHandler exposes the registry for scraping.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
