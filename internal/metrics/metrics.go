// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus instruments of the extraction
// pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "supplier_extract"

// Outcome labels for provider attempts and extractions.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// Metrics groups the pipeline's collectors.
type Metrics struct {
	ProviderAttempts *prometheus.CounterVec
	CallDuration     *prometheus.HistogramVec
	Extractions      *prometheus.CounterVec
	BrandsRejected   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ProviderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Provider attempts by final outcome (success or error kind).",
		}, []string{"provider", "outcome"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of individual provider calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"provider", "mode"}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		BrandsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brands_rejected_total",
			Help:      "Brand candidates rejected by the noise filter, by rule.",
		}, []string{"rule"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.ProviderAttempts, m.CallDuration, m.Extractions, m.BrandsRejected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ProviderAttempt counts one finished provider attempt.
func (m *Metrics) ProviderAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderAttempts.WithLabelValues(provider, outcome).Inc()
}

// ObserveCall records the duration of one provider call.
func (m *Metrics) ObserveCall(provider, mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.CallDuration.WithLabelValues(provider, mode).Observe(d.Seconds())
}

// Extraction counts one pipeline run.
func (m *Metrics) Extraction(outcome string) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(outcome).Inc()
}

// BrandRejected counts one rejected brand candidate.
func (m *Metrics) BrandRejected(rule string) {
	if m == nil {
		return
	}
	m.BrandsRejected.WithLabelValues(rule).Inc()
}
