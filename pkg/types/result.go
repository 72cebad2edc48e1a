// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ErrorKind classifies why a provider attempt did not produce a record.
type ErrorKind string

const (
	ErrNone                ErrorKind = ""
	ErrProviderUnavailable ErrorKind = "provider_unavailable"
	ErrRateLimited         ErrorKind = "rate_limited"
	ErrModelNotFound       ErrorKind = "model_not_found"
	ErrSchemaUnsupported   ErrorKind = "schema_unsupported"
	ErrParseFailure        ErrorKind = "parse_failure"
	ErrValidationFailure   ErrorKind = "validation_failure"
	ErrTimeout             ErrorKind = "timeout"
	ErrProviderError       ErrorKind = "provider_error"
)

// GenerationMode is how a record was requested from a provider.
type GenerationMode string

const (
	// ModeStructured asks the provider to conform to the canonical schema.
	ModeStructured GenerationMode = "structured"

	// ModeText asks for free text containing a JSON object.
	ModeText GenerationMode = "text"
)

// ProviderResult is the outcome of running one provider. Exactly one of
// Record and ErrKind is set.
type ProviderResult struct {
	// Provider is the display name from ProviderConfig.Name.
	Provider string `json:"provider" yaml:"provider"`

	Vendor Vendor `json:"vendor" yaml:"vendor"`

	// Model is the model that produced the final attempt.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// ModelSubstituted is true when the configured model was replaced by the
	// vendor default.
	ModelSubstituted bool `json:"model_substituted,omitempty" yaml:"model_substituted,omitempty"`

	// Mode is the generation mode of the final attempt.
	Mode GenerationMode `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Record is the post-processed record on success.
	Record *SupplierRecord `json:"record,omitempty" yaml:"record,omitempty"`

	// Confidence is the score of Record.
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`

	// ErrKind is set on failure.
	ErrKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	// Err is the underlying error on failure.
	Err error `json:"-" yaml:"-"`

	// Duration is the wall time spent on this provider.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether the provider produced a record.
func (r ProviderResult) OK() bool {
	return r.Record != nil && r.ErrKind == ErrNone
}

// ProviderFailure is the public summary of a failed provider.
type ProviderFailure struct {
	Provider string    `json:"provider" yaml:"provider"`
	Kind     ErrorKind `json:"kind" yaml:"kind"`
	Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// Metadata describes how an ExtractionOutput was produced.
type Metadata struct {
	// Confidence is the mean confidence of the contributing providers.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Sources lists the providers whose records were merged, in configured order.
	Sources []string `json:"sources" yaml:"sources"`

	// ProvidersAttempted lists every provider that was called.
	ProvidersAttempted []string `json:"providers_attempted" yaml:"providers_attempted"`

	// ProvidersSkipped lists enabled providers that had no credentials.
	ProvidersSkipped []string `json:"providers_skipped,omitempty" yaml:"providers_skipped,omitempty"`

	Failures []ProviderFailure `json:"failures,omitempty" yaml:"failures,omitempty"`

	// FallbackUsed is true when the rule-based extractor produced the record.
	FallbackUsed bool `json:"fallback_used,omitempty" yaml:"fallback_used,omitempty"`

	RequestID string `json:"request_id" yaml:"request_id"`
}

// ExtractionOutput is the result of one pipeline run.
type ExtractionOutput struct {
	Record   SupplierRecord `json:"record" yaml:"record"`
	Metadata Metadata       `json:"metadata" yaml:"metadata"`
}
