// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package appraise runs one document through extraction, prompt composition,
// a single generation call, and decoding with validation. Every terminal
// failure is an *Error; no partial record is ever returned.
package appraise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/appraisal-engine/internal/decode"
	"github.com/pdiddy/appraisal-engine/internal/model"
	"github.com/pdiddy/appraisal-engine/internal/prompt"
	"github.com/pdiddy/appraisal-engine/internal/scoring"
	"github.com/pdiddy/appraisal-engine/internal/textract"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// TextExtractor abstracts the PDF text extractor so tests can supply a stub.
type TextExtractor interface {
	Extract(ctx context.Context, doc io.ReadSeeker) (textract.Extraction, error)
}

// ClientFactory builds a model client for one credential.
type ClientFactory func(apiKey string) (model.Client, error)

// Pipeline wires the analysis steps together. It holds no per-analysis
// state and is safe for concurrent use.
type Pipeline struct {
	Extractor TextExtractor
	NewClient ClientFactory
	Logger    *slog.Logger     // nil means slog.Default()
	Now       func() time.Time // nil means time.Now; sets the evaluation date
}

// NewPipeline builds a Pipeline backed by pdftotext and the configured
// generation provider.
func NewPipeline(cfg types.AppraisalConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Extractor: textract.New(cfg.Text),
		NewClient: func(apiKey string) (model.Client, error) {
			return model.New(cfg.AI, apiKey, nil)
		},
		Logger: logger,
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// ExtractText extracts doc's text for preview or analysis. A blank result is
// reported as NoExtractableText and a non-PDF as UnreadableDocument.
func (p *Pipeline) ExtractText(ctx context.Context, doc io.ReadSeeker) (textract.Extraction, error) {
	ext, err := p.Extractor.Extract(ctx, doc)
	switch {
	case errors.Is(err, textract.ErrNoExtractableText):
		return ext, fail(KindNoExtractableText, err)
	case errors.Is(err, textract.ErrUnreadableDocument):
		return ext, fail(KindUnreadableDocument, err)
	case err != nil:
		return ext, fmt.Errorf("extracting text: %w", err)
	}
	if textract.IsBlank(ext.Text) {
		return ext, fail(KindNoExtractableText, textract.ErrNoExtractableText)
	}
	return ext, nil
}

// ComposePrompt returns the full instruction bundle for text, dated today.
func (p *Pipeline) ComposePrompt(text string) (string, error) {
	return prompt.Compose(text, p.now())
}

// Analyze extracts doc's text and appraises it with the given credential.
func (p *Pipeline) Analyze(ctx context.Context, doc io.ReadSeeker, apiKey string) (*types.Appraisal, error) {
	reqID := uuid.NewString()
	log := p.logger().With("req_id", reqID)

	ext, err := p.ExtractText(ctx, doc)
	if err != nil {
		log.Warn("appraise.extract.failed", "error", err)
		return nil, err
	}
	log.Info("appraise.extract.done", "pages", ext.Pages, "text_pages", ext.TextPages, "chars", len(ext.Text))

	return p.appraise(ctx, log, ext.Text, apiKey)
}

// AnalyzeText appraises already-extracted document text. Blank text stops
// before any model client is created.
func (p *Pipeline) AnalyzeText(ctx context.Context, text, apiKey string) (*types.Appraisal, error) {
	log := p.logger().With("req_id", uuid.NewString())
	return p.appraise(ctx, log, text, apiKey)
}

func (p *Pipeline) appraise(ctx context.Context, log *slog.Logger, text, apiKey string) (*types.Appraisal, error) {
	if textract.IsBlank(text) {
		log.Warn("appraise.extract.failed", "error", textract.ErrNoExtractableText)
		return nil, fail(KindNoExtractableText, textract.ErrNoExtractableText)
	}

	body, err := p.ComposePrompt(text)
	if err != nil {
		return nil, fmt.Errorf("composing prompt: %w", err)
	}

	client, err := p.NewClient(apiKey)
	if err != nil {
		log.Error("appraise.model.failed", "error", err)
		return nil, fail(KindTransportFailure, err)
	}

	log.Info("appraise.model.start", "prompt_bytes", len(body))
	start := time.Now()
	raw, err := client.Generate(ctx, body)
	if err != nil {
		log.Error("appraise.model.failed", "error", err, "duration", time.Since(start))
		return nil, fail(KindTransportFailure, err)
	}
	log.Info("appraise.model.done", "response_bytes", len(raw), "duration", time.Since(start))

	rec, err := decode.DecodeString(raw)
	if err != nil {
		var ve *decode.ValidationError
		if errors.As(err, &ve) {
			log.Warn("appraise.decode.failed", "kind", KindValidationFailure, "path", ve.Path, "reason", ve.Reason)
			return nil, fail(KindValidationFailure, err)
		}
		log.Warn("appraise.decode.failed", "kind", KindDecodeFailure, "error", err)
		return nil, fail(KindDecodeFailure, err)
	}

	res := scoring.Recompute(rec)
	log.Info("appraise.done",
		"study_type", rec.ArticleMetadata.StudyType,
		"certainty", res.Certainty,
		"percentage", rec.OverallAssessment.PercentageScore,
		"rating", rec.OverallAssessment.QualityRating,
		"conflict", res.Conflict != nil,
	)
	return rec, nil
}
