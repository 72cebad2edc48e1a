// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/supplier-extract/internal/schema"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient builds a Gemini client. baseURL overrides the API root and
// is mainly useful for proxies and tests.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string, hc *http.Client) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(apiKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	}
	if strings.TrimSpace(baseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(baseURL)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// recordSchema is the record schema in genai form, built once.
var recordSchema = toGenaiSchema(schema.JSONSchema())

func (c *GeminiClient) config(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}
	cfg.MaxOutputTokens = int32(maxTokens)
	if SupportsTemperature(req.Model) {
		t := float32(req.Temperature)
		cfg.Temperature = &t
	}
	return cfg
}

func (c *GeminiClient) generate(ctx context.Context, req Request, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: types.ErrParseFailure, Err: fmt.Errorf("empty response")}
	}
	return text, nil
}

// Structured implements Client.
func (c *GeminiClient) Structured(ctx context.Context, req Request) (any, error) {
	cfg := c.config(req)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = recordSchema
	text, err := c.generate(ctx, req, cfg)
	if err != nil {
		return nil, err
	}
	v, err := schema.Decode([]byte(text))
	if err != nil {
		return nil, &Error{Kind: types.ErrParseFailure, Err: err}
	}
	return v, nil
}

// Text implements Client.
func (c *GeminiClient) Text(ctx context.Context, req Request) (string, error) {
	return c.generate(ctx, req, c.config(req))
}

// toGenaiSchema converts a JSON Schema map into the SDK's schema type. Only
// the keywords the record schema uses are carried over.
func toGenaiSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	switch m["type"] {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "string":
		s.Type = genai.TypeString
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(pm)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}
	switch req := m["required"].(type) {
	case []string:
		s.Required = append([]string(nil), req...)
	case []any:
		for _, r := range req {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	return s
}
