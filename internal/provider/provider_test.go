// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/pdiddy/supplier-extract/internal/httputil"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// --- Models ---

func TestSupportsStructured(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-4o-mini", true},
		{"gpt-5-mini", false},
		{"gpt-5-chat-latest", false},
		{"o1", false},
		{"o1-preview", false},
		{"o3-mini", false},
		{"o10-custom", true},
		{"claude-sonnet-4-5-20250929", true},
		{"gemini-2.5-flash", true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportsStructured(tt.model))
		})
	}
}

func TestSupportsTemperature(t *testing.T) {
	assert.False(t, SupportsTemperature("o1"))
	assert.False(t, SupportsTemperature("o3-mini"))
	assert.True(t, SupportsTemperature("gpt-4o"))
	assert.True(t, SupportsTemperature("gpt-5-mini"))
}

func TestResolveModel(t *testing.T) {
	m, sub := ResolveModel(types.VendorOpenAI, "")
	assert.Equal(t, "gpt-4o-mini", m)
	assert.False(t, sub)

	m, sub = ResolveModel(types.VendorOpenAI, "gpt-5-mini")
	assert.Equal(t, "gpt-4o-mini", m)
	assert.True(t, sub)

	m, sub = ResolveModel(types.VendorAnthropic, " claude-opus-4-1 ")
	assert.Equal(t, "claude-opus-4-1", m)
	assert.False(t, sub)
}

// --- Classification ---

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{"nil", nil, types.ErrNone},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), types.ErrTimeout},
		{"http 429", &httputil.StatusError{StatusCode: 429, Body: "slow down"}, types.ErrRateLimited},
		{"rate limit text", errors.New("Rate limit reached for requests"), types.ErrRateLimited},
		{"http 404", &httputil.StatusError{StatusCode: 404, Body: `{"error":{"type":"not_found_error"}}`}, types.ErrModelNotFound},
		{"model_not_found", &httputil.StatusError{StatusCode: 400, Body: `{"error":{"code":"model_not_found"}}`}, types.ErrModelNotFound},
		{"does not exist", errors.New("The model `gpt-9` does not exist"), types.ErrModelNotFound},
		{"json_schema 400", &httputil.StatusError{StatusCode: 400, Body: `Invalid parameter: 'response_format' of type 'json_schema' is not supported`}, types.ErrSchemaUnsupported},
		{"tool 400", &httputil.StatusError{StatusCode: 400, Body: `tool_choice is not supported`}, types.ErrSchemaUnsupported},
		{"500 mentioning tool", &httputil.StatusError{StatusCode: 500, Body: `tool crashed`}, types.ErrProviderError},
		{"401", &httputil.StatusError{StatusCode: 401, Body: "invalid x-api-key"}, types.ErrProviderError},
		{"genai 429", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, types.ErrRateLimited},
		{"genai 404", genai.APIError{Code: 404, Message: "models/x is not found"}, types.ErrModelNotFound},
		{"genai schema", genai.APIError{Code: 400, Message: "Invalid response_schema"}, types.ErrSchemaUnsupported},
		{"plain", errors.New("connection reset"), types.ErrProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWrapKeepsKind(t *testing.T) {
	err := Wrap("p1", &Error{Kind: types.ErrParseFailure, Err: errors.New("bad")})
	assert.Equal(t, types.ErrParseFailure, KindOf(err))
	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "p1", pe.Provider)

	err = Wrap("p2", &httputil.StatusError{StatusCode: 429})
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.ErrRateLimited, pe.Kind)
	assert.Equal(t, 429, pe.StatusCode)
	assert.Contains(t, err.Error(), "provider p2")

	assert.NoError(t, Wrap("p", nil))
}

// --- Redaction ---

func TestRedact(t *testing.T) {
	in := "request failed: Authorization: Bearer abc.def x-api-key=sk-ant-1234567890abcdef key=AIzaSECRET"
	out := Redact(in, "AIzaSECRET")
	assert.NotContains(t, out, "abc.def")
	assert.NotContains(t, out, "sk-ant-1234567890abcdef")
	assert.NotContains(t, out, "AIzaSECRET")
	assert.Empty(t, Redact(""))
	assert.Equal(t, "plain message", Redact("plain message", "ab"))
}

// --- Prompt ---

func TestRenderPrompt(t *testing.T) {
	p, err := RenderPrompt(PromptInput{URL: "https://acme.example", Content: "Acme sells widgets"})
	require.NoError(t, err)
	assert.Contains(t, p, "https://acme.example")
	assert.Contains(t, p, "Acme sells widgets")
	assert.Contains(t, p, "brands")

	text := TextPrompt(p)
	assert.True(t, strings.HasPrefix(text, p))
	assert.Contains(t, text, "Return ONLY the JSON object")
}

// --- Anthropic ---

func TestAnthropicStructured(t *testing.T) {
	var got anthropicRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"content":[{"type":"tool_use","name":"record_supplier","input":{"companyName":"Acme"}}],"stop_reason":"tool_use"}`)
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	c := &AnthropicClient{APIKey: "key-123", HTTP: ts.Client()}
	v, err := c.Structured(context.Background(), Request{Model: "claude-x", Prompt: "hi", Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"companyName": "Acme"}, v)

	require.Len(t, got.Tools, 1)
	assert.Equal(t, recordToolName, got.Tools[0].Name)
	require.NotNil(t, got.ToolChoice)
	assert.Equal(t, "tool", got.ToolChoice.Type)
	assert.Equal(t, types.DefaultMaxTokens, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.1, *got.Temperature, 1e-9)
}

func TestAnthropicStructured_NoToolCall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"text","text":"sorry"}],"stop_reason":"end_turn"}`)
	}))
	defer ts.Close()

	c := &AnthropicClient{APIKey: "k", BaseURL: ts.URL, HTTP: ts.Client()}
	_, err := c.Structured(context.Background(), Request{Model: "claude-x", Prompt: "hi"})
	assert.Equal(t, types.ErrParseFailure, KindOf(err))
}

func TestAnthropicText(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Tools)
		fmt.Fprint(w, `{"content":[{"type":"text","text":"Here: "},{"type":"text","text":"{\"companyName\":\"Acme\"}"}]}`)
	}))
	defer ts.Close()

	c := &AnthropicClient{APIKey: "k", BaseURL: ts.URL + "/", HTTP: ts.Client()}
	out, err := c.Text(context.Background(), Request{Model: "claude-x", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, `Here: {"companyName":"Acme"}`, out)
	assert.Equal(t, "/v1/messages", path)
}

func TestAnthropicRateLimited(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"type":"error","error":{"type":"rate_limit_error"}}`)
	}))
	defer ts.Close()

	c := &AnthropicClient{APIKey: "k", BaseURL: ts.URL, HTTP: ts.Client()}
	_, err := c.Structured(context.Background(), Request{Model: "claude-x", Prompt: "hi"})
	assert.Equal(t, types.ErrRateLimited, Classify(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// --- OpenAI ---

func TestOpenAIStructured(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"companyName\":\"Acme\",\"brands\":[\"Yamaha\"]}"},"finish_reason":"stop"}]}`)
	}))
	defer ts.Close()

	c := &OpenAIClient{APIKey: "sk-test", BaseURL: ts.URL, HTTP: ts.Client()}
	v, err := c.Structured(context.Background(), Request{Model: "gpt-4o-mini", Prompt: "hi", Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"companyName": "Acme", "brands": []any{"Yamaha"}}, v)

	rf, ok := got["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", rf["type"])
	js := rf["json_schema"].(map[string]any)
	assert.Equal(t, "supplier_record", js["name"])
	assert.Equal(t, false, js["strict"])
	assert.Contains(t, got, "temperature")
	assert.Contains(t, got, "max_tokens")
}

func TestOpenAIReasoningModelOmitsTemperature(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{}"}}]}`)
	}))
	defer ts.Close()

	c := &OpenAIClient{APIKey: "k", BaseURL: ts.URL, HTTP: ts.Client()}
	_, err := c.Text(context.Background(), Request{Model: "o1-mini", Prompt: "hi", Temperature: 0.1})
	require.NoError(t, err)
	assert.NotContains(t, got, "temperature")
	assert.NotContains(t, got, "max_tokens")
	assert.NotContains(t, got, "response_format")
	assert.Equal(t, float64(types.DefaultMaxTokens), got["max_completion_tokens"])
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   types.ErrorKind
	}{
		{"schema unsupported", 400, `{"error":{"message":"response_format json_schema is not supported with this model"}}`, types.ErrSchemaUnsupported},
		{"model not found", 404, `{"error":{"code":"model_not_found"}}`, types.ErrModelNotFound},
		{"refusal", 200, `{"choices":[{"message":{"content":"","refusal":"no"}}]}`, types.ErrParseFailure},
		{"no choices", 200, `{"choices":[]}`, types.ErrParseFailure},
		{"bad json content", 200, `{"choices":[{"message":{"content":"not json"}}]}`, types.ErrParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			c := &OpenAIClient{APIKey: "k", BaseURL: ts.URL, HTTP: ts.Client()}
			_, err := c.Structured(context.Background(), Request{Model: "gpt-4o-mini", Prompt: "hi"})
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

// --- Gemini ---

func TestGeminiStructured(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"companyName\":\"Acme\"}"}]},"finishReason":"STOP"}]}`)
	}))
	defer ts.Close()

	c, err := NewGeminiClient(context.Background(), "gem-key", ts.URL, ts.Client())
	require.NoError(t, err)

	v, err := c.Structured(context.Background(), Request{Model: "gemini-2.5-flash", Prompt: "hi", Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"companyName": "Acme"}, v)
	assert.Contains(t, body, "generationConfig")
}

func TestGeminiNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"models/nope is not found","status":"NOT_FOUND"}}`)
	}))
	defer ts.Close()

	c, err := NewGeminiClient(context.Background(), "gem-key", ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = c.Text(context.Background(), Request{Model: "nope", Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, types.ErrModelNotFound, Classify(err))
}

func TestToGenaiSchema(t *testing.T) {
	s := recordSchema
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	require.Contains(t, s.Properties, "brands")
	assert.Equal(t, genai.TypeArray, s.Properties["brands"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["brands"].Items.Type)
	links := s.Properties["brandLinks"]
	require.NotNil(t, links)
	assert.Equal(t, []string{"name"}, links.Items.Required)
	assert.Equal(t, genai.TypeObject, s.Properties["socialMedia"].Type)
}

// --- Construction ---

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, types.ProviderConfig{Vendor: types.VendorOpenAI}, Options{})
	assert.Equal(t, types.ErrProviderUnavailable, KindOf(err))

	_, err = New(ctx, types.ProviderConfig{Vendor: types.VendorOpenAICompatible, APIKey: "k"}, Options{})
	assert.ErrorContains(t, err, "base_url")

	_, err = New(ctx, types.ProviderConfig{Vendor: "acme", APIKey: "k"}, Options{})
	assert.ErrorContains(t, err, "unknown vendor")

	c, err := New(ctx, types.ProviderConfig{Vendor: types.VendorAnthropic, APIKey: "k"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)

	c, err = New(ctx, types.ProviderConfig{Vendor: types.VendorOpenAI, APIKey: "k", RequestsPerMinute: 30}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &pacedClient{}, c)

	c, err = New(ctx, types.ProviderConfig{Vendor: types.VendorGemini, APIKey: "k"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)
}

type countingClient struct{ calls int32 }

func (c *countingClient) Structured(context.Context, Request) (any, error) {
	atomic.AddInt32(&c.calls, 1)
	return map[string]any{}, nil
}

func (c *countingClient) Text(context.Context, Request) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return "{}", nil
}

func TestPacedHonorsContext(t *testing.T) {
	inner := &countingClient{}
	c := Paced(inner, 1) // one call per minute

	_, err := c.Structured(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Text(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
}
