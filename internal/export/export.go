// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders an appraisal record for storage or sharing. The
// JSON form uses the record's stable field names and re-decodes to an
// identical record.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported Format.
var Formats = []Format{FormatJSON, FormatYAML, FormatXLSX}

const baseName = "casp_evaluation"

// ParseFormat accepts a format name, case-insensitively; "yml" is an alias
// for yaml and the empty string selects json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want one of %v)", s, Formats)
}

// FileName returns the conventional download name for f.
func (f Format) FileName() string {
	return baseName + "." + string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Write encodes rec to w in format f.
func Write(f Format, w io.Writer, rec *types.Appraisal) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatYAML:
		return writeYAML(w, rec)
	case FormatXLSX:
		return writeXLSX(w, rec)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteFile writes rec to path in format f.
func WriteFile(f Format, path string, rec *types.Appraisal) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, out, rec); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeJSON(w io.Writer, rec *types.Appraisal) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, rec *types.Appraisal) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
