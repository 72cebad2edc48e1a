// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider talks to text-understanding services. Each vendor client
// offers two generation modes: structured generation constrained to the
// canonical record schema, and free-text generation whose answer must be
// scanned for a JSON object.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// Request is one generation request.
type Request struct {
	// Model is the resolved model identifier.
	Model string

	// Prompt is the complete user prompt.
	Prompt string

	// Temperature is sent only to models that accept it.
	Temperature float64

	// MaxTokens caps the response length.
	MaxTokens int
}

// Client abstracts a vendor API so tests can supply a mock.
type Client interface {
	// Structured asks for output conforming to the canonical schema and
	// returns the decoded JSON value.
	Structured(ctx context.Context, req Request) (any, error)

	// Text asks for free text and returns it verbatim.
	Text(ctx context.Context, req Request) (string, error)
}

// Factory builds a Client for a provider configuration.
type Factory func(ctx context.Context, cfg types.ProviderConfig) (Client, error)

// Options holds dependencies shared by all clients.
type Options struct {
	// HTTPClient is used for every outbound call. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// NewFactory returns the Factory that builds real vendor clients.
func NewFactory(opts Options) Factory {
	return func(ctx context.Context, cfg types.ProviderConfig) (Client, error) {
		return New(ctx, cfg, opts)
	}
}

// New builds the vendor client for cfg, paced by cfg.RequestsPerMinute.
func New(ctx context.Context, cfg types.ProviderConfig, opts Options) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Kind: types.ErrProviderUnavailable, Provider: cfg.Name(), Err: fmt.Errorf("no API key configured")}
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	var c Client
	switch cfg.Vendor {
	case types.VendorAnthropic:
		c = &AnthropicClient{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, HTTP: hc}
	case types.VendorOpenAI:
		c = &OpenAIClient{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, HTTP: hc}
	case types.VendorOpenAICompatible:
		if strings.TrimSpace(cfg.BaseURL) == "" {
			return nil, fmt.Errorf("provider %s: openai_compatible requires base_url", cfg.Name())
		}
		c = &OpenAIClient{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, HTTP: hc}
	case types.VendorGemini:
		g, err := NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL, hc)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", cfg.Name(), err)
		}
		c = g
	default:
		return nil, fmt.Errorf("provider %s: unknown vendor %q", cfg.Name(), cfg.Vendor)
	}

	if cfg.RequestsPerMinute > 0 {
		c = Paced(c, cfg.RequestsPerMinute)
	}
	return c, nil
}

// Paced wraps c so that calls are spaced to at most rpm per minute. The
// limiter only delays calls; it never changes their results.
func Paced(c Client, rpm float64) Client {
	return &pacedClient{next: c, lim: rate.NewLimiter(rate.Limit(rpm/60), 1)}
}

type pacedClient struct {
	next Client
	lim  *rate.Limiter
}

func (p *pacedClient) Structured(ctx context.Context, req Request) (any, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Structured(ctx, req)
}

func (p *pacedClient) Text(ctx context.Context, req Request) (string, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return "", err
	}
	return p.next.Text(ctx, req)
}
