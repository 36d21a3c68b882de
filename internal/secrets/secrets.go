// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves generation-service credentials. A secrets
// directory holds one plain-text file per credential: the filename is the
// key name and the trimmed contents are the value.
//
// Key files: gemini-api-key, openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// EnvKeys maps each provider to its conventional environment variable.
var EnvKeys = map[types.Provider]string{
	types.ProviderGemini: "GEMINI_API_KEY",
	types.ProviderOpenAI: "OPENAI_API_KEY",
	types.ProviderClaude: "ANTHROPIC_API_KEY",
}

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error. Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("secrets.read.failed", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// ForProvider returns the credential for p from the loaded secrets, falling
// back to the provider's environment variable. It returns "" when neither is
// set.
func ForProvider(loaded map[string]string, p types.Provider) string {
	if v := loaded[types.SecretKeys[p]]; v != "" {
		return v
	}
	if env, ok := EnvKeys[p]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}
