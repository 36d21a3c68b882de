// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode turns raw model output into a validated appraisal record.
// Decoding is all-or-nothing: the raw text is parsed into a generic tree,
// checked against the record schema, decoded into the typed record and
// re-verified against the scoring rules. Any failure discards the record.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// ExcerptLimit bounds the raw-text prefix carried by a DecodeError.
const ExcerptLimit = 200

// DecodeError reports raw text that is not valid JSON.
type DecodeError struct {
	Err     error
	Excerpt string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v (starts with %q)", e.Err, e.Excerpt)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports a well-formed JSON document that violates the
// record schema or one of its invariants. Path is dotted, with array
// indexes in brackets; "(root)" names the document itself.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Path, e.Reason)
}

// Decode parses raw as an appraisal record. It returns a *DecodeError when
// raw is not JSON and a *ValidationError when the JSON does not describe a
// valid record.
func Decode(raw []byte) (*types.Appraisal, error) {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, &DecodeError{Err: err, Excerpt: excerpt(raw)}
	}

	if err := validateTree(tree); err != nil {
		return nil, err
	}

	// The tree re-encodes integral numbers without a fraction, so a
	// schema-valid 2024.0 decodes into an int field.
	normalized, err := json.Marshal(tree)
	if err != nil {
		return nil, &ValidationError{Path: rootPath, Reason: err.Error()}
	}

	var rec types.Appraisal
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return nil, typedDecodeError(err)
	}

	if err := Verify(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DecodeString is Decode for string input.
func DecodeString(raw string) (*types.Appraisal, error) {
	return Decode([]byte(raw))
}

// typedDecodeError reports a typed decode failure at the offending field
// when the decoder names one.
func typedDecodeError(err error) *ValidationError {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return &ValidationError{Path: ute.Field, Reason: fmt.Sprintf("cannot decode %s into %s", ute.Value, ute.Type)}
	}
	return &ValidationError{Path: rootPath, Reason: err.Error()}
}

// excerpt returns at most ExcerptLimit bytes of raw, cut on a rune boundary.
func excerpt(raw []byte) string {
	if len(raw) <= ExcerptLimit {
		return string(raw)
	}
	cut := ExcerptLimit
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return string(raw[:cut])
}
