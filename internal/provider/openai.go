// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/supplier-extract/internal/httputil"
	"github.com/pdiddy/supplier-extract/internal/schema"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// openAIBaseURL is the default API root. Tests override it.
var openAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls the Chat Completions API. It also serves any
// OpenAI-compatible service through BaseURL.
type OpenAIClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIJSONSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type openAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *openAIJSONSchema `json:"json_schema,omitempty"`
}

type openAIRequest struct {
	Model               string                `json:"model"`
	Messages            []openAIMessage       `json:"messages"`
	Temperature         *float64              `json:"temperature,omitempty"`
	MaxTokens           int                   `json:"max_tokens,omitempty"`
	MaxCompletionTokens int                   `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *OpenAIClient) endpoint() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = openAIBaseURL
	}
	return base + "/chat/completions"
}

func (c *OpenAIClient) request(req Request) openAIRequest {
	body := openAIRequest{
		Model:    req.Model,
		Messages: []openAIMessage{{Role: "user", Content: req.Prompt}},
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}
	if SupportsTemperature(req.Model) {
		t := req.Temperature
		body.Temperature = &t
		body.MaxTokens = maxTokens
	} else {
		// Reasoning models only accept max_completion_tokens.
		body.MaxCompletionTokens = maxTokens
	}
	return body
}

func (c *OpenAIClient) complete(ctx context.Context, body openAIRequest) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}
	var out openAIResponse
	if err := httputil.PostJSON(ctx, c.HTTP, c.endpoint(), headers, body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &Error{Kind: types.ErrParseFailure, Err: fmt.Errorf("no choices in response")}
	}
	msg := out.Choices[0].Message
	if msg.Content == "" {
		if msg.Refusal != "" {
			return "", &Error{Kind: types.ErrParseFailure, Err: fmt.Errorf("model refused: %s", msg.Refusal)}
		}
		return "", &Error{Kind: types.ErrParseFailure, Err: fmt.Errorf("empty response")}
	}
	return msg.Content, nil
}

// Structured implements Client.
func (c *OpenAIClient) Structured(ctx context.Context, req Request) (any, error) {
	body := c.request(req)
	body.ResponseFormat = &openAIResponseFormat{
		Type: "json_schema",
		JSONSchema: &openAIJSONSchema{
			Name:   "supplier_record",
			Schema: schema.JSONSchema(),
			Strict: false,
		},
	}
	content, err := c.complete(ctx, body)
	if err != nil {
		return nil, err
	}
	v, err := schema.Decode([]byte(content))
	if err != nil {
		return nil, &Error{Kind: types.ErrParseFailure, Err: err}
	}
	return v, nil
}

// Text implements Client.
func (c *OpenAIClient) Text(ctx context.Context, req Request) (string, error) {
	return c.complete(ctx, c.request(req))
}
