// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ProviderAttempt("openai", OutcomeSuccess)
	m.ProviderAttempt("openai", OutcomeSuccess)
	m.ProviderAttempt("anthropic", "rate_limited")
	m.Extraction(OutcomeFallback)
	m.BrandRejected("ui_element")
	m.ObserveCall("openai", "structured", 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("openai", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("anthropic", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BrandsRejected.WithLabelValues("ui_element")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CallDuration))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ProviderAttempt("p", OutcomeSuccess)
		m.ObserveCall("p", "text", time.Second)
		m.Extraction(OutcomeFailed)
		m.BrandRejected("length")
	})
}
