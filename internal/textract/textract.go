// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textract turns a PDF into plain text, one block per page.
//
// pdfcpu checks that the input is a readable PDF and counts its pages;
// poppler's pdftotext produces the text. Pages are separated by form feeds
// in pdftotext output, trimmed, and joined by a blank line. Pages that yield
// no text are dropped.
package textract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

const (
	defaultBinary = "pdftotext"
	pageSeparator = "\f"
	pageJoiner    = "\n\n"
	maxStderr     = 512
)

var (
	// ErrNoExtractableText means every page came back blank, which usually
	// indicates a scanned, image-only document.
	ErrNoExtractableText = errors.New("no extractable text in document")

	// ErrUnreadableDocument means the input is not a PDF pdfcpu can open.
	ErrUnreadableDocument = errors.New("document is not a readable PDF")
)

// Extraction is the text of one document.
type Extraction struct {
	Text      string `json:"text" yaml:"text"`
	Pages     int    `json:"pages" yaml:"pages"`
	TextPages int    `json:"text_pages" yaml:"text_pages"`
}

// Extractor extracts text from PDFs. The zero value is not usable; call New.
type Extractor struct {
	cfg        types.TextConfig
	exec       executor
	countPages func(io.ReadSeeker) (int, error)
}

// New creates an Extractor that runs pdftotext on the host.
func New(cfg types.TextConfig) *Extractor {
	return newExtractor(cfg, defaultExec, pageCount)
}

func newExtractor(cfg types.TextConfig, exec executor, count func(io.ReadSeeker) (int, error)) *Extractor {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	return &Extractor{cfg: cfg, exec: exec, countPages: count}
}

// pageCount validates the PDF in relaxed mode and returns its page count.
func pageCount(rs io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(rs, conf)
}

// Extract reads doc and returns its text. It returns ErrNoExtractableText
// (with the page counts filled in) when no page yields text, and
// ErrUnreadableDocument when doc is not a PDF.
func (e *Extractor) Extract(ctx context.Context, doc io.ReadSeeker) (Extraction, error) {
	pages, err := e.countPages(doc)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	if _, err := doc.Seek(0, io.SeekStart); err != nil {
		return Extraction{}, fmt.Errorf("rewinding document: %w", err)
	}

	if _, err := e.exec.LookPath(e.cfg.Binary); err != nil {
		return Extraction{}, fmt.Errorf("%s not found on PATH (install poppler-utils): %w", e.cfg.Binary, err)
	}

	var stdout, stderr bytes.Buffer
	if err := e.exec.RunPiped(ctx, e.cfg.Binary, e.args(), doc, &stdout, &stderr); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderr {
			msg = msg[:maxStderr]
		}
		if msg != "" {
			return Extraction{}, fmt.Errorf("running %s: %w: %s", e.cfg.Binary, err, msg)
		}
		return Extraction{}, fmt.Errorf("running %s: %w", e.cfg.Binary, err)
	}

	text, textPages := JoinPages(strings.Split(stdout.String(), pageSeparator))
	out := Extraction{Text: text, Pages: pages, TextPages: textPages}
	if textPages == 0 {
		return out, ErrNoExtractableText
	}
	return out, nil
}

func (e *Extractor) args() []string {
	args := []string{"-q", "-enc", "UTF-8"}
	if e.cfg.Layout {
		args = append(args, "-layout")
	}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	return append(args, "-", "-")
}

// JoinPages trims each page, drops blank ones and joins the rest with a blank
// line. It returns the joined text and the number of non-blank pages.
func JoinPages(pages []string) (string, int) {
	kept := make([]string, 0, len(pages))
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, pageJoiner), len(kept)
}

// IsBlank reports whether text has no non-whitespace content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
