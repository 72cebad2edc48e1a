// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"regexp"
	"strings"

	"github.com/pdiddy/supplier-extract/pkg/types"
)

// defaultModels are the models used when none is configured and the targets
// of model substitution. Each supports structured generation.
var defaultModels = map[types.Vendor]string{
	types.VendorAnthropic:        "claude-sonnet-4-5-20250929",
	types.VendorOpenAI:           "gpt-4o-mini",
	types.VendorOpenAICompatible: "gpt-4o-mini",
	types.VendorGemini:           "gemini-2.5-flash",
}

// DefaultModel returns the vendor's default model.
func DefaultModel(v types.Vendor) string {
	return defaultModels[v]
}

// noStructuredOutput matches models that reject schema-constrained output.
var noStructuredOutput = []*regexp.Regexp{
	regexp.MustCompile(`(?i)gpt-5-mini`),
	regexp.MustCompile(`(?i)gpt-5-chat`),
	regexp.MustCompile(`(?i)^o1(-|$)`),
	regexp.MustCompile(`(?i)^o3(-|$)`),
}

// reasoningModel matches models that reject a temperature parameter.
var reasoningModel = regexp.MustCompile(`(?i)^o[13](-|$)`)

// SupportsStructured reports whether model accepts schema-constrained generation.
func SupportsStructured(model string) bool {
	m := strings.TrimSpace(model)
	for _, re := range noStructuredOutput {
		if re.MatchString(m) {
			return false
		}
	}
	return true
}

// SupportsTemperature reports whether model accepts a sampling temperature.
func SupportsTemperature(model string) bool {
	return !reasoningModel.MatchString(strings.TrimSpace(model))
}

// ResolveModel returns the model to call for a provider. An empty model
// resolves to the vendor default; a model known not to support structured
// generation is replaced by the default and substituted is true.
func ResolveModel(v types.Vendor, model string) (resolved string, substituted bool) {
	model = strings.TrimSpace(model)
	if model == "" {
		return DefaultModel(v), false
	}
	if !SupportsStructured(model) {
		if def := DefaultModel(v); def != "" {
			return def, true
		}
	}
	return model, false
}
