// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provider identifies the generation service behind the model client.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// Providers lists every supported Provider.
var Providers = []Provider{ProviderGemini, ProviderOpenAI, ProviderClaude}

// DefaultModels holds the model used when AIConfig.Model is empty.
var DefaultModels = map[Provider]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderClaude: "claude-sonnet-4-5-20250929",
}

// SecretKeys maps each provider to its credential file in .secrets/.
var SecretKeys = map[Provider]string{
	ProviderGemini: "gemini-api-key",
	ProviderOpenAI: "openai-api-key",
	ProviderClaude: "anthropic-api-key",
}

// AIConfig holds settings for the generation call.
type AIConfig struct {
	// Provider selects the generation service (default gemini).
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier; empty selects DefaultModels[Provider].
	Model string `json:"model" yaml:"model"`

	// APIKey is the credential. The presentation shell usually supplies it
	// per call instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens caps the response length for providers that require it
	// (default 16384).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ModelName returns the configured model or the provider default.
func (c AIConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModels[c.Provider]
}

// TextConfig holds settings for PDF text extraction.
type TextConfig struct {
	// Binary is the pdftotext executable (default "pdftotext").
	Binary string `json:"binary" yaml:"binary"`

	// Layout keeps the physical page layout (pdftotext -layout).
	Layout bool `json:"layout" yaml:"layout"`

	// MaxPages limits extraction to the first N pages; 0 means all pages.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// ServerConfig holds settings for the HTTP shell.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins lists CORS origins; empty allows all.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

// AppraisalConfig groups every configuration section.
type AppraisalConfig struct {
	AI     AIConfig     `json:"ai" yaml:"ai"`
	Text   TextConfig   `json:"text" yaml:"text"`
	Server ServerConfig `json:"server" yaml:"server"`
}
