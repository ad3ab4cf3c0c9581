package observability

import (
	"testing"
	"time"

	"github.com/jonathan/dnav/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveExtraction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	result := &types.ExtractionResult{
		Candidates: make([]types.DecisionCandidate, 4),
		Debug:      types.ExtractionDebug{DocumentsProcessed: 2, PagesParsed: 9, FallbackUsed: true},
	}
	m.ObserveExtraction(result, 20*time.Millisecond)
	m.ObserveExtraction(&types.ExtractionResult{Debug: types.ExtractionDebug{DocumentsProcessed: 1}}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DocumentsProcessed))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.PagesParsed))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CandidatesEmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackRuns))

	count, err := testutil.GatherAndCount(reg, "dnav_extraction_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRequest("POST", "/extract", "200", time.Millisecond)
	m.ObserveRequest("POST", "/extract", "200", time.Millisecond)
	m.ObserveRequest("GET", "/runs", "503", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/extract", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/runs", "503")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExtraction(&types.ExtractionResult{}, time.Second)
		m.ObserveRequest("GET", "/", "200", time.Second)
	})
}

func TestDefaultMetrics_Singleton(t *testing.T) {
	assert.Same(t, DefaultMetrics(), DefaultMetrics())
}
