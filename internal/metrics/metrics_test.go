package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRecords(t *testing.T) {
	m := NewManager()

	m.RecordVerdict("deterministic", "APPROVE", 0.1)
	m.RecordVerdict("deterministic", "APPROVE", 0.2)
	m.RecordVerdict("ai", "REJECT", 0.95)
	m.RecordFallback("timeout")
	m.ObserveAIRequest(1500 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.verdicts.WithLabelValues("deterministic", "APPROVE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdicts.WithLabelValues("ai", "REJECT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("timeout")))

	count, err := testutil.GatherAndCount(m.Registry(), "idea_screener_similarity_score", "idea_screener_ai_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestManagerOptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(WithNamespace("custom"), WithRegistry(registry))
	m.RecordFallback("not_configured")

	assert.Same(t, registry, m.Registry())

	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "custom_fallbacks_total")
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager

	assert.NotPanics(t, func() {
		m.RecordVerdict("ai", "APPROVE", 0.5)
		m.RecordFallback("generate")
		m.ObserveAIRequest(time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}

func TestWriteTextfile(t *testing.T) {
	m := NewManager()
	m.RecordVerdict("deterministic", "REJECT", 1)

	path := filepath.Join(t.TempDir(), "screener.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `idea_screener_verdicts_total{recommendation="REJECT",strategy="deterministic"} 1`))
}
