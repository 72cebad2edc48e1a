// Package extract runs the configured providers over normalized content and
// turns each provider's answer into a scored, post-processed record.
//
// Each provider is driven by a small state machine: a structured attempt,
// then a free-text attempt when the provider rejects schema-constrained
// generation. Providers never affect one another; a failing provider only
// yields a failed ProviderResult.
package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/supplier-extract/internal/confidence"
	"github.com/pdiddy/supplier-extract/internal/metrics"
	"github.com/pdiddy/supplier-extract/internal/postprocess"
	"github.com/pdiddy/supplier-extract/internal/provider"
	"github.com/pdiddy/supplier-extract/internal/schema"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Target is one provider to run. A nil Client marks a provider that cannot
// be called, typically for lack of credentials.
type Target struct {
	Name   string
	Config types.ProviderConfig
	Client provider.Client
}

// Input is what every provider is asked about.
type Input struct {
	// URL is the page the content came from.
	URL string

	// Content is the normalized content block.
	Content string
}

// state is a provider's position in the attempt state machine.
type state int

const (
	stateIdle state = iota
	stateStructured
	stateText
	stateSuccess
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStructured:
		return "attempting_structured"
	case stateText:
		return "attempting_text_fallback"
	case stateSuccess:
		return "success"
	case stateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s state) terminal() bool {
	return s == stateSuccess || s == stateFailed
}

func (s state) mode() types.GenerationMode {
	if s == stateText {
		return types.ModeText
	}
	return types.ModeStructured
}

// decide is the transition function of the attempt state machine. kind is
// the outcome of the attempt made in s; canRetry reports whether the one
// default-model retry is still available. retry is true when the next
// attempt must use the vendor default model.
func decide(s state, kind types.ErrorKind, canRetry bool) (next state, retry bool) {
	switch s {
	case stateIdle:
		return stateStructured, false
	case stateStructured, stateText:
	default:
		return s, false
	}

	switch kind {
	case types.ErrNone:
		return stateSuccess, false
	case types.ErrModelNotFound:
		if canRetry {
			return s, true
		}
		return stateFailed, false
	case types.ErrSchemaUnsupported:
		if s == stateStructured {
			return stateText, false
		}
		return stateFailed, false
	default:
		return stateFailed, false
	}
}

// Orchestrator runs providers. It holds no per-run state and is safe for
// concurrent use.
type Orchestrator struct {
	cfg     types.ExtractionConfig
	proc    *postprocess.Processor
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New returns an Orchestrator. A nil proc uses postprocess.Default.
func New(cfg types.ExtractionConfig, proc *postprocess.Processor, opts ...Option) *Orchestrator {
	cfg.ApplyDefaults()
	if proc == nil {
		proc = postprocess.Default()
	}
	o := &Orchestrator{cfg: cfg, proc: proc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run attempts extraction with every target and returns one result per
// target in the order given, however the calls were scheduled.
func (o *Orchestrator) Run(ctx context.Context, targets []Target, in Input) []types.ProviderResult {
	results := make([]types.ProviderResult, len(targets))
	if len(targets) == 0 {
		return results
	}

	prompt, err := provider.RenderPrompt(provider.PromptInput{URL: in.URL, Content: in.Content})
	if err != nil {
		for i, t := range targets {
			results[i] = failed(t, types.ErrProviderError, err)
		}
		return results
	}

	limit := o.cfg.Concurrency
	if limit <= 0 || limit > len(targets) {
		limit = len(targets)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, t := range targets {
		g.Go(func() error {
			results[i] = o.runOne(ctx, t, in.URL, prompt)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func failed(t Target, kind types.ErrorKind, err error) types.ProviderResult {
	return types.ProviderResult{
		Provider: t.Name,
		Vendor:   t.Config.Vendor,
		ErrKind:  kind,
		Err:      err,
	}
}

// runOne drives one provider through the state machine.
func (o *Orchestrator) runOne(ctx context.Context, t Target, sourceURL, prompt string) types.ProviderResult {
	start := time.Now()
	log := o.logger.With(zap.String("provider", t.Name), zap.String("vendor", string(t.Config.Vendor)))

	if t.Client == nil {
		log.Debug("provider skipped, no credentials")
		return failed(t, types.ErrProviderUnavailable, errors.New("no credentials configured"))
	}

	model, substituted := provider.ResolveModel(t.Config.Vendor, t.Config.Model)
	if substituted {
		log.Info("model does not support structured output, using default",
			zap.String("configured", t.Config.Model), zap.String("model", model))
	}
	res := types.ProviderResult{
		Provider:         t.Name,
		Vendor:           t.Config.Vendor,
		ModelSubstituted: substituted,
	}

	var (
		rec     types.SupplierRecord
		kind    types.ErrorKind
		lastErr error
		retried bool
	)
	st, _ := decide(stateIdle, types.ErrNone, false)
	for !st.terminal() {
		res.Mode = st.mode()
		res.Model = model

		rec, lastErr = o.attempt(ctx, t, st.mode(), model, prompt, sourceURL)
		kind = provider.KindOf(lastErr)

		if lastErr != nil {
			log.Warn("provider attempt failed",
				zap.String("model", model),
				zap.String("mode", string(st.mode())),
				zap.String("kind", string(kind)),
				zap.String("error", provider.Redact(lastErr.Error(), t.Config.APIKey)))
		}

		def := provider.DefaultModel(t.Config.Vendor)
		canRetry := !retried && def != "" && def != model
		next, retry := decide(st, kind, canRetry)
		if retry {
			retried = true
			model = def
			res.ModelSubstituted = true
			log.Info("model not found, retrying with default", zap.String("model", model))
		}
		st = next
	}
	res.Duration = time.Since(start)

	if st == stateFailed {
		if kind == types.ErrModelNotFound && retried {
			kind = types.ErrProviderError
		}
		res.ErrKind = kind
		res.Err = provider.Wrap(t.Name, lastErr)
		o.metrics.ProviderAttempt(t.Name, string(kind))
		return res
	}

	score := confidence.Score(rec)
	res.Record = &rec
	res.Confidence = score
	o.metrics.ProviderAttempt(t.Name, metrics.OutcomeSuccess)
	log.Info("provider succeeded",
		zap.String("model", model),
		zap.String("mode", string(res.Mode)),
		zap.Float64("confidence", score),
		zap.Duration("duration", res.Duration))
	return res
}

// attempt makes one provider call in the given mode and returns the
// post-processed record.
func (o *Orchestrator) attempt(ctx context.Context, t Target, mode types.GenerationMode, model, prompt, sourceURL string) (types.SupplierRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	req := provider.Request{
		Model:       model,
		Prompt:      prompt,
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	}

	start := time.Now()
	var raw any
	var err error
	if mode == types.ModeStructured {
		raw, err = t.Client.Structured(callCtx, req)
	} else {
		req.Prompt = provider.TextPrompt(prompt)
		var text string
		text, err = t.Client.Text(callCtx, req)
		if err == nil {
			var obj map[string]any
			obj, err = schema.FirstJSONObject(text)
			if err != nil {
				err = &provider.Error{Kind: types.ErrParseFailure, Err: err}
			}
			raw = obj
		}
	}
	o.metrics.ObserveCall(t.Name, string(mode), time.Since(start))
	if err != nil {
		return types.SupplierRecord{}, err
	}

	rec, fieldErrs, err := schema.Coerce(raw)
	if err != nil {
		return types.SupplierRecord{}, &provider.Error{Kind: types.ErrParseFailure, Err: err}
	}
	for _, fe := range fieldErrs {
		o.logger.Debug("field dropped",
			zap.String("provider", t.Name),
			zap.String("field", fe.Field),
			zap.String("reason", fe.Reason))
	}
	if rec.IsEmpty() {
		return types.SupplierRecord{}, &provider.Error{Kind: types.ErrParseFailure, Err: errors.New("response contained no recognizable fields")}
	}

	return o.proc.Process(rec, sourceURL), nil
}
