// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profiler is the public entry point of the extraction pipeline. A
// Profiler turns scraped page content into one validated, confidence-scored
// supplier record by running every configured provider, merging the records
// that came back and falling back to rule-based extraction when none did.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/supplier-extract/internal/aggregate"
	"github.com/pdiddy/supplier-extract/internal/confidence"
	"github.com/pdiddy/supplier-extract/internal/content"
	"github.com/pdiddy/supplier-extract/internal/extract"
	"github.com/pdiddy/supplier-extract/internal/fallback"
	"github.com/pdiddy/supplier-extract/internal/metrics"
	"github.com/pdiddy/supplier-extract/internal/postprocess"
	"github.com/pdiddy/supplier-extract/internal/provider"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// ErrExtractionFailed is returned when no provider produced a record and the
// rule-based extractor found nothing either.
var ErrExtractionFailed = errors.New("extraction failed")

// Profiler runs the pipeline. It is safe for concurrent use; calls to
// Extract share nothing but the provider clients and their rate limiters.
type Profiler struct {
	cfg      types.Config
	targets  []extract.Target
	proc     *postprocess.Processor
	fallback *fallback.Extractor
	logger   *zap.Logger
	metrics  *metrics.Metrics

	factory  provider.Factory
	patterns *postprocess.Patterns
	newID    func() string
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records pipeline metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Profiler) { p.metrics = m }
}

// WithClientFactory replaces the factory that builds provider clients.
func WithClientFactory(f provider.Factory) Option {
	return func(p *Profiler) { p.factory = f }
}

// WithPatterns replaces the noise pattern tables of the post-processor.
func WithPatterns(pats postprocess.Patterns) Option {
	return func(p *Profiler) { p.patterns = &pats }
}

// New validates cfg and builds a client for every enabled provider. Enabled
// providers without an API key are kept and reported as skipped on every
// call.
func New(cfg types.Config, opts ...Option) (*Profiler, error) {
	cfg.ApplyDefaults()
	p := &Profiler{
		cfg:      cfg,
		fallback: fallback.New(),
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}
	if p.factory == nil {
		p.factory = provider.NewFactory(provider.Options{})
	}

	pats, err := p.loadPatterns()
	if err != nil {
		return nil, err
	}
	p.proc, err = postprocess.New(pats, cfg.Extraction.Filter,
		postprocess.WithLogger(p.logger),
		postprocess.WithRejectHook(p.metrics.BrandRejected))
	if err != nil {
		return nil, err
	}

	p.targets, err = p.buildTargets(context.Background())
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profiler) loadPatterns() (postprocess.Patterns, error) {
	if p.patterns != nil {
		return *p.patterns, nil
	}
	if path := p.cfg.Extraction.Filter.PatternsFile; path != "" {
		return postprocess.LoadPatterns(path)
	}
	return postprocess.DefaultPatterns(), nil
}

// buildTargets returns the enabled providers in configured order. Repeated
// names get a "#n" suffix so that every provider is reported distinctly.
func (p *Profiler) buildTargets(ctx context.Context) ([]extract.Target, error) {
	var targets []extract.Target
	seen := make(map[string]int)
	for i, pc := range p.cfg.Providers {
		if !pc.Enabled {
			continue
		}
		if !pc.Vendor.Valid() {
			return nil, fmt.Errorf("provider %d: unknown vendor %q", i, pc.Vendor)
		}

		name := pc.Name()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s#%d", name, n)
		}

		t := extract.Target{Name: name, Config: pc}
		if strings.TrimSpace(pc.APIKey) != "" {
			c, err := p.factory(ctx, pc)
			switch {
			case provider.KindOf(err) == types.ErrProviderUnavailable:
			case err != nil:
				return nil, fmt.Errorf("configuring provider %s: %w", name, err)
			default:
				t.Client = c
			}
		}
		if t.Client == nil {
			p.logger.Warn("provider has no credentials and will be skipped", zap.String("provider", name))
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Providers returns the names of the enabled providers in configured order
// and whether each can be called.
func (p *Profiler) Providers() []ProviderStatus {
	out := make([]ProviderStatus, len(p.targets))
	for i, t := range p.targets {
		out[i] = ProviderStatus{
			Name:      t.Name,
			Vendor:    t.Config.Vendor,
			Model:     t.Config.Model,
			Available: t.Client != nil,
		}
	}
	return out
}

// ProviderStatus describes one enabled provider.
type ProviderStatus struct {
	Name      string       `json:"name" yaml:"name"`
	Vendor    types.Vendor `json:"vendor" yaml:"vendor"`
	Model     string       `json:"model,omitempty" yaml:"model,omitempty"`
	Available bool         `json:"available" yaml:"available"`
}

// Extract runs the pipeline over sc. It fails only when no provider produced
// a record and the rule-based extractor found nothing, or when ctx ends.
func (p *Profiler) Extract(ctx context.Context, sc types.ScrapedContent) (types.ExtractionOutput, error) {
	reqID := p.newID()
	log := p.logger.With(zap.String("request_id", reqID))
	log.Info("extraction started", zap.String("url", sc.URL), zap.Int("providers", len(p.targets)))

	text := content.Normalize(sc, p.cfg.Extraction.Content)
	orch := extract.New(p.cfg.Extraction, p.proc, extract.WithLogger(log), extract.WithMetrics(p.metrics))
	results := orch.Run(ctx, p.targets, extract.Input{URL: sc.URL, Content: text})

	meta := types.Metadata{
		Sources:            []string{},
		ProvidersAttempted: []string{},
		RequestID:          reqID,
	}
	var scores []float64
	var errs []error
	for _, r := range results {
		if r.ErrKind == types.ErrProviderUnavailable {
			meta.ProvidersSkipped = append(meta.ProvidersSkipped, r.Provider)
			continue
		}
		meta.ProvidersAttempted = append(meta.ProvidersAttempted, r.Provider)
		if r.OK() {
			meta.Sources = append(meta.Sources, r.Provider)
			scores = append(scores, r.Confidence)
			continue
		}
		msg := ""
		if r.Err != nil {
			msg = provider.Redact(r.Err.Error(), p.apiKey(r.Provider))
			errs = append(errs, r.Err)
		}
		meta.Failures = append(meta.Failures, types.ProviderFailure{Provider: r.Provider, Kind: r.ErrKind, Message: msg})
	}

	if rec, ok := aggregate.MergeResults(results, p.cfg.Extraction.Filter); ok {
		meta.Confidence = confidence.Mean(scores)
		p.metrics.Extraction(metrics.OutcomeSuccess)
		log.Info("extraction finished",
			zap.Strings("sources", meta.Sources),
			zap.Float64("confidence", meta.Confidence))
		return types.ExtractionOutput{Record: rec, Metadata: meta}, nil
	}

	if err := ctx.Err(); err != nil {
		p.metrics.Extraction(metrics.OutcomeFailed)
		return types.ExtractionOutput{}, fmt.Errorf("extracting %s: %w", sc.URL, err)
	}

	log.Warn("no provider produced a record, using rule-based extraction", zap.Int("failures", len(meta.Failures)))
	rec := p.fallback.Extract(sc)
	if rec.IsEmpty() {
		p.metrics.Extraction(metrics.OutcomeFailed)
		log.Error("extraction failed")
		if len(errs) == 0 {
			return types.ExtractionOutput{}, fmt.Errorf("%w: no provider produced a record", ErrExtractionFailed)
		}
		return types.ExtractionOutput{}, fmt.Errorf("%w: %w", ErrExtractionFailed, errors.Join(errs...))
	}

	rec = p.proc.Process(rec, sc.URL)
	meta.Sources = []string{fallback.Source}
	meta.FallbackUsed = true
	meta.Confidence = confidence.Score(rec)
	p.metrics.Extraction(metrics.OutcomeFallback)
	log.Info("extraction finished with rule-based record", zap.Float64("confidence", meta.Confidence))
	return types.ExtractionOutput{Record: rec, Metadata: meta}, nil
}

func (p *Profiler) apiKey(name string) string {
	for _, t := range p.targets {
		if t.Name == name {
			return t.Config.APIKey
		}
	}
	return ""
}
