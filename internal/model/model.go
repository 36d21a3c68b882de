// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model sends a composed prompt to a generation service and returns
// the raw reply text. Every backend is configured for temperature 0 and JSON
// output, makes exactly one request per call, and never streams.
package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/appraisal-engine/internal/httputil"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// defaultMaxTokens is used when AIConfig.MaxTokens is zero.
const defaultMaxTokens = 16384

// Client abstracts the generation service so tests can supply a mock.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TransportError reports that the generation call itself failed: network,
// authentication, quota, or an unusable response envelope.
type TransportError struct {
	Provider   types.Provider
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// transportError wraps err, lifting the status code from an HTTP status error.
func transportError(p types.Provider, err error) *TransportError {
	te := &TransportError{Provider: p, Err: err}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		te.StatusCode = se.StatusCode
	}
	return te
}

// New returns the backend selected by cfg.Provider. An empty provider selects
// Gemini. httpClient may be nil.
func New(cfg types.AIConfig, apiKey string, httpClient *http.Client) (Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = types.ProviderGemini
		cfg.Provider = provider
	}
	if apiKey == "" {
		return nil, &TransportError{Provider: provider, Err: errors.New("no API key configured")}
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	switch provider {
	case types.ProviderGemini:
		return &GeminiBackend{
			APIKey:    apiKey,
			Model:     cfg.ModelName(),
			BaseURL:   cfg.BaseURL,
			MaxTokens: maxTokens,
			Client:    httpClient,
		}, nil
	case types.ProviderOpenAI:
		return NewOpenAIBackend(apiKey, cfg.ModelName(), cfg.BaseURL, maxTokens, httpClient), nil
	case types.ProviderClaude:
		return &ClaudeBackend{
			APIKey:    apiKey,
			Model:     cfg.ModelName(),
			URL:       cfg.BaseURL,
			MaxTokens: maxTokens,
			Client:    httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want one of %v)", provider, types.Providers)
	}
}
