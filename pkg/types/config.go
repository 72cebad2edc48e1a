package types

import "time"

// Vendor identifies the API family a provider speaks.
type Vendor string

const (
	VendorAnthropic        Vendor = "anthropic"
	VendorOpenAI           Vendor = "openai"
	VendorOpenAICompatible Vendor = "openai_compatible"
	VendorGemini           Vendor = "gemini"
)

// Valid reports whether v is one of the supported vendors.
func (v Vendor) Valid() bool {
	switch v {
	case VendorAnthropic, VendorOpenAI, VendorOpenAICompatible, VendorGemini:
		return true
	}
	return false
}

// ProviderConfig describes one text-understanding provider.
type ProviderConfig struct {
	// ID is an optional display name (e.g. "openrouter-llama"). When empty the
	// vendor name is used.
	ID string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`

	// Vendor selects the client implementation.
	Vendor Vendor `json:"vendor" yaml:"vendor" mapstructure:"vendor"`

	// APIKey is the credential. A provider without a key is skipped.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the vendor endpoint (required for openai_compatible).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Model is the model identifier. When empty the vendor default is used.
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// Enabled turns the provider on. Disabled providers are neither called nor reported.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// RequestsPerMinute paces outbound calls (0 disables pacing).
	RequestsPerMinute float64 `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty" mapstructure:"requests_per_minute"`
}

// Name returns the display name of the provider.
func (p ProviderConfig) Name() string {
	if p.ID != "" {
		return p.ID
	}
	return string(p.Vendor)
}

// ContentBudget bounds the normalized content sent to providers. All values
// are counted in runes.
type ContentBudget struct {
	// MaxChars caps the whole normalized block (default 8000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	// BodyChars caps the page body inside the block (default 6000).
	BodyChars int `json:"body_chars" yaml:"body_chars" mapstructure:"body_chars"`

	// SectionChars caps each promoted brand or contact section (default 1500).
	SectionChars int `json:"section_chars" yaml:"section_chars" mapstructure:"section_chars"`
}

// FilterConfig holds the noise-filter thresholds of the post-processor.
type FilterConfig struct {
	// BrandMinLen and BrandMaxLen bound the rune length of a brand (defaults 2 and 40).
	BrandMinLen int `json:"brand_min_len" yaml:"brand_min_len" mapstructure:"brand_min_len"`
	BrandMaxLen int `json:"brand_max_len" yaml:"brand_max_len" mapstructure:"brand_max_len"`

	// BrandMaxWords is the maximum word count of a brand (default 3).
	BrandMaxWords int `json:"brand_max_words" yaml:"brand_max_words" mapstructure:"brand_max_words"`

	// StreetMaxLen rejects longer streets that carry no number and no street keyword (default 100).
	StreetMaxLen int `json:"street_max_len" yaml:"street_max_len" mapstructure:"street_max_len"`

	// MaxCategories caps the number of categories kept (default 50).
	MaxCategories int `json:"max_categories" yaml:"max_categories" mapstructure:"max_categories"`

	// MaxTags caps the number of generated tags (default 10).
	MaxTags int `json:"max_tags" yaml:"max_tags" mapstructure:"max_tags"`

	// PatternsFile optionally replaces the built-in noise pattern tables.
	PatternsFile string `json:"patterns_file,omitempty" yaml:"patterns_file,omitempty" mapstructure:"patterns_file"`
}

// ExtractionConfig holds orchestration settings.
type ExtractionConfig struct {
	// Concurrency bounds simultaneous provider calls. 0 means one slot per provider;
	// 1 runs providers sequentially.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// CallTimeout bounds each individual network call (default 60s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout" mapstructure:"call_timeout"`

	// Temperature is the sampling temperature for models that accept one (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	Content ContentBudget `json:"content" yaml:"content" mapstructure:"content"`
	Filter  FilterConfig  `json:"filter" yaml:"filter" mapstructure:"filter"`
}

// Config is the full configuration of the extraction pipeline.
type Config struct {
	Providers  []ProviderConfig `json:"providers" yaml:"providers" mapstructure:"providers"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultMaxChars      = 8000
	DefaultBodyChars     = 6000
	DefaultSectionChars  = 1500
	DefaultCallTimeout   = 60 * time.Second
	DefaultTemperature   = 0.1
	DefaultMaxTokens     = 4096
	DefaultBrandMinLen   = 2
	DefaultBrandMaxLen   = 40
	DefaultBrandMaxWords = 3
	DefaultStreetMaxLen  = 100
	DefaultMaxCategories = 50
	DefaultMaxTags       = 10
)

// ApplyDefaults fills zero values with their defaults.
func (c *ContentBudget) ApplyDefaults() {
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.BodyChars <= 0 {
		c.BodyChars = DefaultBodyChars
	}
	if c.SectionChars <= 0 {
		c.SectionChars = DefaultSectionChars
	}
}

// ApplyDefaults fills zero values with their defaults.
func (f *FilterConfig) ApplyDefaults() {
	if f.BrandMinLen <= 0 {
		f.BrandMinLen = DefaultBrandMinLen
	}
	if f.BrandMaxLen <= 0 {
		f.BrandMaxLen = DefaultBrandMaxLen
	}
	if f.BrandMaxWords <= 0 {
		f.BrandMaxWords = DefaultBrandMaxWords
	}
	if f.StreetMaxLen <= 0 {
		f.StreetMaxLen = DefaultStreetMaxLen
	}
	if f.MaxCategories <= 0 {
		f.MaxCategories = DefaultMaxCategories
	}
	if f.MaxTags <= 0 {
		f.MaxTags = DefaultMaxTags
	}
}

// ApplyDefaults fills zero values with their defaults.
func (e *ExtractionConfig) ApplyDefaults() {
	if e.CallTimeout <= 0 {
		e.CallTimeout = DefaultCallTimeout
	}
	if e.Temperature == 0 {
		e.Temperature = DefaultTemperature
	}
	if e.MaxTokens <= 0 {
		e.MaxTokens = DefaultMaxTokens
	}
	e.Content.ApplyDefaults()
	e.Filter.ApplyDefaults()
}

// ApplyDefaults fills zero values with their defaults.
func (c *Config) ApplyDefaults() {
	c.Extraction.ApplyDefaults()
}
