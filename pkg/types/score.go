// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Score is either a numeric item score or the not-applicable marker. The
// zero value is the numeric score 0.
type Score struct {
	value float64
	na    bool
}

// NumericScore returns a numeric Score.
func NumericScore(v float64) Score { return Score{value: v} }

// NotApplicable returns the not-applicable Score.
func NotApplicable() Score { return Score{na: true} }

// IsNotApplicable reports whether s is the not-applicable marker.
func (s Score) IsNotApplicable() bool { return s.na }

// Value returns the numeric value and true, or 0 and false when s is not
// applicable.
func (s Score) Value() (float64, bool) {
	if s.na {
		return 0, false
	}
	return s.value, true
}

func (s Score) String() string {
	if s.na {
		return NotApplicableScore
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}

// MarshalJSON emits a JSON number, or the string "N/A".
func (s Score) MarshalJSON() ([]byte, error) {
	if s.na {
		return json.Marshal(NotApplicableScore)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a JSON number, "N/A", or a string holding a number.
func (s *Score) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := parseScore(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (s Score) MarshalYAML() (any, error) {
	if s.na {
		return NotApplicableScore, nil
	}
	return s.value, nil
}

// ParseScore converts a decoded JSON value into a Score.
func ParseScore(v any) (Score, error) {
	return parseScore(v)
}

func parseScore(v any) (Score, error) {
	switch t := v.(type) {
	case float64:
		return NumericScore(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Score{}, fmt.Errorf("score %q: %w", t, err)
		}
		return NumericScore(f), nil
	case string:
		s := strings.TrimSpace(t)
		if s == NotApplicableScore {
			return NotApplicable(), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Score{}, fmt.Errorf("score %q is neither a number nor %q", t, NotApplicableScore)
		}
		return NumericScore(f), nil
	default:
		return Score{}, fmt.Errorf("score has unsupported type %T", v)
	}
}
