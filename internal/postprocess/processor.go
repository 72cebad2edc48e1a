// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package postprocess normalizes coerced supplier records and filters the
// noise that text-understanding providers systematically produce: product
// names reported as brands, page furniture, dated magazine titles and
// product copy reported as street addresses.
//
// Every step is idempotent, so Process(Process(r)) equals Process(r).
package postprocess

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Processor applies normalization and noise filtering to records. It is
// immutable after construction and safe for concurrent use.
type Processor struct {
	cfg      types.FilterConfig
	pats     *compiledPatterns
	rules    []BrandRule
	logger   *zap.Logger
	onReject func(rule string)
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for rejection diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRejectHook registers a callback invoked with the rule name of every
// rejected brand.
func WithRejectHook(fn func(rule string)) Option {
	return func(p *Processor) { p.onReject = fn }
}

// New compiles the pattern tables and returns a Processor. Zero thresholds in
// cfg take their defaults.
func New(pats Patterns, cfg types.FilterConfig, opts ...Option) (*Processor, error) {
	cfg.ApplyDefaults()
	compiled, err := pats.compile()
	if err != nil {
		return nil, fmt.Errorf("compiling noise patterns: %w", err)
	}
	p := &Processor{
		cfg:    cfg,
		pats:   compiled,
		logger: zap.NewNop(),
	}
	p.rules = brandRules(cfg, compiled)
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Default returns a Processor with the built-in patterns and thresholds.
func Default() *Processor {
	p, err := New(DefaultPatterns(), types.FilterConfig{})
	if err != nil {
		panic(fmt.Sprintf("postprocess: default patterns: %v", err))
	}
	return p
}

// Process returns a normalized copy of rec. sourceURL is the page the record
// was extracted from; it becomes the website when none was extracted.
func (p *Processor) Process(rec types.SupplierRecord, sourceURL string) types.SupplierRecord {
	out := rec.Clone()

	for _, f := range out.ScalarFields() {
		*f.Value = strings.TrimSpace(*f.Value)
	}

	out.Website = NormalizeURL(out.Website)
	if out.Website == "" {
		out.Website = NormalizeURL(sourceURL)
	}
	if out.ContactEmail != "" && !ValidEmail(out.ContactEmail) {
		p.logger.Debug("email dropped", zap.String("email", out.ContactEmail))
		out.ContactEmail = ""
	}
	out.SocialMedia = NormalizeSocial(out.SocialMedia)
	out.Addresses = p.processAddresses(out.Addresses, out.Location)

	out.Services = DedupeFold(out.Services)
	out.Products = DedupeFold(out.Products)
	out.Certifications = DedupeFold(out.Certifications)

	var rejected []Rejection
	out.Brands, rejected = p.FilterBrands(out.Brands)
	for _, r := range rejected {
		p.logger.Debug("brand rejected", zap.String("brand", r.Brand), zap.String("rule", r.Rule))
		if p.onReject != nil {
			p.onReject(r.Rule)
		}
	}
	out.BrandLinks = NormalizeBrandLinks(out.BrandLinks)

	out.Categories = NormalizeCategories(out.Categories, p.cfg.MaxCategories)

	out.Tags = DedupeFold(out.Tags)
	if len(out.Tags) == 0 {
		out.Tags = GenerateTags(out, p.cfg.MaxTags)
	}

	return out
}

// NormalizeBrandLinks drops links without a name, normalises their URLs and
// merges links that share a BrandKey, filling missing url and logo from
// later duplicates.
func NormalizeBrandLinks(links []types.BrandLink) []types.BrandLink {
	var out []types.BrandLink
	index := make(map[string]int, len(links))
	for _, l := range links {
		l.Name = strings.TrimSpace(l.Name)
		key := BrandKey(l.Name)
		if key == "" {
			continue
		}
		l.URL = NormalizeURL(l.URL)
		l.Logo = NormalizeURL(l.Logo)

		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, l)
			continue
		}
		if out[i].URL == "" {
			out[i].URL = l.URL
		}
		if out[i].Logo == "" {
			out[i].Logo = l.Logo
		}
	}
	return out
}
