// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/supplier-extract/internal/httputil"
	"github.com/pdiddy/supplier-extract/internal/schema"
	"github.com/pdiddy/supplier-extract/pkg/types"
)

// anthropicAPIURL is the Messages endpoint. Tests override it to point at
// an httptest server.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

const (
	anthropicVersion = "2023-06-01"
	recordToolName   = "record_supplier"
)

// AnthropicClient calls the Anthropic Messages API. Structured generation
// forces a single tool call whose input schema is the record schema.
type AnthropicClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type anthropicRequest struct {
	Model       string               `json:"model"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature *float64             `json:"temperature,omitempty"`
	Messages    []anthropicMessage   `json:"messages"`
	Tools       []anthropicTool      `json:"tools,omitempty"`
	ToolChoice  *anthropicToolChoice `json:"tool_choice,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Text  string          `json:"text,omitempty"`
		Name  string          `json:"name,omitempty"`
		Input json.RawMessage `json:"input,omitempty"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *AnthropicClient) endpoint() string {
	if b := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); b != "" {
		return b + "/v1/messages"
	}
	return anthropicAPIURL
}

func (c *AnthropicClient) send(ctx context.Context, body anthropicRequest) (*anthropicResponse, error) {
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": anthropicVersion,
	}
	var out anthropicResponse
	if err := httputil.PostJSON(ctx, c.HTTP, c.endpoint(), headers, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AnthropicClient) request(req Request) anthropicRequest {
	body := anthropicRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = types.DefaultMaxTokens
	}
	if SupportsTemperature(req.Model) {
		t := req.Temperature
		body.Temperature = &t
	}
	return body
}

// Structured implements Client.
func (c *AnthropicClient) Structured(ctx context.Context, req Request) (any, error) {
	body := c.request(req)
	body.Tools = []anthropicTool{{
		Name:        recordToolName,
		Description: "Record the supplier information extracted from the web content.",
		InputSchema: schema.JSONSchema(),
	}}
	body.ToolChoice = &anthropicToolChoice{Type: "tool", Name: recordToolName}

	resp, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}
	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == recordToolName {
			v, err := schema.Decode(block.Input)
			if err != nil {
				return nil, &Error{Kind: types.ErrParseFailure, Err: err}
			}
			return v, nil
		}
	}
	return nil, &Error{Kind: types.ErrParseFailure, Err: fmt.Errorf("no %s tool call in response (stop_reason %q)", recordToolName, resp.StopReason)}
}

// Text implements Client.
func (c *AnthropicClient) Text(ctx context.Context, req Request) (string, error) {
	resp, err := c.send(ctx, c.request(req))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &Error{Kind: types.ErrParseFailure, Err: fmt.Errorf("empty response")}
	}
	return sb.String(), nil
}
