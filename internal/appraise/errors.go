// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package appraise

import "errors"

// Kind classifies a terminal analysis failure.
type Kind string

const (
	KindNoExtractableText  Kind = "NoExtractableText"
	KindUnreadableDocument Kind = "UnreadableDocument"
	KindTransportFailure   Kind = "TransportFailure"
	KindDecodeFailure      Kind = "DecodeFailure"
	KindValidationFailure  Kind = "ValidationFailure"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrNoExtractableText  = &Error{Kind: KindNoExtractableText}
	ErrUnreadableDocument = &Error{Kind: KindUnreadableDocument}
	ErrTransportFailure   = &Error{Kind: KindTransportFailure}
	ErrDecodeFailure      = &Error{Kind: KindDecodeFailure}
	ErrValidationFailure  = &Error{Kind: KindValidationFailure}
)

// Error is a terminal failure of one analysis. Err carries the cause
// (textract, model or decode error) unchanged.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind when target carries no cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
