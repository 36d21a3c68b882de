// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/appraisal-engine/internal/schema"
)

const (
	schemaURL = "appraisal.schema.json"
	rootPath  = "(root)"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func recordSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schema.JSON())); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// validateTree checks a decoded JSON tree against the record schema and
// reports one violation, chosen in a stable order.
func validateTree(tree any) error {
	sch, err := recordSchema()
	if err != nil {
		return err
	}
	err = sch.Validate(tree)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Path: rootPath, Reason: err.Error()}
	}
	leaf := firstLeaf(ve)
	path := pointerToPath(leaf.InstanceLocation)
	if name := namedProperty(leaf.Message); name != "" {
		path = joinPath(path, name)
	}
	return &ValidationError{Path: path, Reason: leaf.Message}
}

// namedProperty extracts the property a "missing properties" or
// "additionalProperties" message refers to.
func namedProperty(msg string) string {
	if !strings.HasPrefix(msg, "missing properties") && !strings.HasPrefix(msg, "additionalProperties") {
		return ""
	}
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func joinPath(parent, name string) string {
	if parent == rootPath {
		return name
	}
	return parent + "." + name
}

// firstLeaf returns the most specific cause of ve. Causes are ordered by
// instance location, then keyword location, so the choice is stable.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	var leaves []*jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.SliceStable(leaves, func(i, j int) bool {
		if leaves[i].InstanceLocation != leaves[j].InstanceLocation {
			return leaves[i].InstanceLocation < leaves[j].InstanceLocation
		}
		return leaves[i].KeywordLocation < leaves[j].KeywordLocation
	})
	return leaves[0]
}

// pointerToPath converts a JSON pointer ("/a/b/0") into a dotted path
// ("a.b[0]").
func pointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return rootPath
	}
	var b strings.Builder
	for _, seg := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		seg = strings.NewReplacer("~1", "/", "~0", "~").Replace(seg)
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
