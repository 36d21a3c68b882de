// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// OpenAIBackend calls the Chat Completions API in JSON object mode through
// the official SDK. SDK retries are disabled.
type OpenAIBackend struct {
	model     string
	maxTokens int
	client    openai.Client
}

// NewOpenAIBackend creates an OpenAI backend. baseURL and httpClient are
// optional.
func NewOpenAIBackend(apiKey, model, baseURL string, maxTokens int, httpClient *http.Client) *OpenAIBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIBackend{
		model:     model,
		maxTokens: maxTokens,
		client:    openai.NewClient(opts...),
	}
}

// Generate sends one chat completion request and returns the first choice's
// content.
func (o *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
		TopP:        openai.Float(1),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(o.maxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &TransportError{Provider: types.ProviderOpenAI, Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func mapOpenAIError(err error) error {
	te := &TransportError{Provider: types.ProviderOpenAI, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		te.StatusCode = apiErr.StatusCode
	}
	return te
}
