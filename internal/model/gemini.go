// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pdiddy/appraisal-engine/internal/httputil"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// geminiBaseURL is the Gemini models endpoint. Package-level var for test substitution.
var geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiBackend calls the Gemini generateContent API with a JSON response
// MIME type.
type GeminiBackend struct {
	APIKey    string
	Model     string
	BaseURL   string // overrides geminiBaseURL when set
	MaxTokens int
	Client    *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate sends one generateContent request and returns the first
// candidate's text.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	base := g.BaseURL
	if base == "" {
		base = geminiBaseURL
	}
	url := strings.TrimRight(base, "/") + "/" + g.Model + ":generateContent"

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0,
			TopP:             1,
			MaxOutputTokens:  g.MaxTokens,
		},
	}

	var resp geminiResponse
	headers := map[string]string{"x-goog-api-key": g.APIKey}
	if err := httputil.PostJSON(ctx, g.Client, url, headers, body, &resp); err != nil {
		return "", transportError(types.ProviderGemini, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", transportError(types.ProviderGemini, errors.New("prompt blocked: "+resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", transportError(types.ProviderGemini, errors.New("empty response"))
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
