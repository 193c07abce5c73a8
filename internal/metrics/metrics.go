// Package metrics exposes Prometheus counters and histograms for screening runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "idea_screener"

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the screening metrics and the registry they are registered in.
// All methods are safe on a nil Manager.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	verdicts          *prometheus.CounterVec
	fallbacks         *prometheus.CounterVec
	aiRequestDuration prometheus.Histogram
	similarityScore   prometheus.Histogram
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)

	m.verdicts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "verdicts_total",
		Help:      "Verdicts produced, by strategy and recommendation.",
	}, []string{"strategy", "recommendation"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fallbacks_total",
		Help:      "Requests answered by the deterministic engine instead of the AI judge, by reason.",
	}, []string{"reason"})

	m.aiRequestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "Duration of AI judge requests, including failed ones.",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})

	m.similarityScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "similarity_score",
		Help:      "Similarity score of returned verdicts.",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	return m
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordVerdict counts a returned verdict and observes its score.
func (m *Manager) RecordVerdict(strategy, recommendation string, score float64) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(strategy, recommendation).Inc()
	m.similarityScore.Observe(score)
}

// RecordFallback counts a deterministic fallback. reason is a short stable label
// such as "not_configured" or an AI failure stage.
func (m *Manager) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

func (m *Manager) ObserveAIRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.aiRequestDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile collector format.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", path, err)
	}
	return nil
}
