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

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const anthropicVersion = "2023-06-01"

// ClaudeBackend calls the Claude Messages API. The API has no JSON mode, so
// the prompt alone asks for a bare JSON object.
type ClaudeBackend struct {
	APIKey    string
	Model     string
	URL       string // overrides claudeAPIURL when set
	MaxTokens int
	Client    *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends one Messages request and returns the concatenated text
// blocks.
func (c *ClaudeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	url := c.URL
	if url == "" {
		url = claudeAPIURL
	}

	body := claudeRequest{
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: 0,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var resp claudeResponse
	if err := httputil.PostJSON(ctx, c.Client, url, headers, body, &resp); err != nil {
		return "", transportError(types.ProviderClaude, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", transportError(types.ProviderClaude, errors.New("no text content in response"))
	}
	return sb.String(), nil
}
