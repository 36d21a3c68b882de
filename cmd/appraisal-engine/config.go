// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/appraisal-engine/internal/secrets"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

func bindFlag(f *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(types.ProviderGemini))
	v.SetDefault("ai.max_tokens", 16384)
	v.SetDefault("text.binary", "pdftotext")
	v.SetDefault("text.layout", false)
	v.SetDefault("text.max_pages", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig resolves the typed configuration from v.
func loadConfig(v *viper.Viper) (types.AppraisalConfig, error) {
	provider := types.Provider(strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))))
	known := false
	for _, p := range types.Providers {
		if p == provider {
			known = true
		}
	}
	if !known {
		return types.AppraisalConfig{}, fmt.Errorf("unknown provider %q (want one of %v)", provider, types.Providers)
	}

	return types.AppraisalConfig{
		AI: types.AIConfig{
			Provider:  provider,
			Model:     v.GetString("ai.model"),
			APIKey:    v.GetString("ai.api_key"),
			BaseURL:   v.GetString("ai.base_url"),
			MaxTokens: v.GetInt("ai.max_tokens"),
		},
		Text: types.TextConfig{
			Binary:   v.GetString("text.binary"),
			Layout:   v.GetBool("text.layout"),
			MaxPages: v.GetInt("text.max_pages"),
		},
		Server: types.ServerConfig{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
	}, nil
}

// resolveAPIKey picks the credential: flag, env or config value first, then
// the provider's secrets file, then the provider's conventional variable.
func resolveAPIKey(cfg types.AIConfig, loaded map[string]string) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	return secrets.ForProvider(loaded, cfg.Provider)
}

func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
}

// commandContext is cancelled on SIGINT/SIGTERM and, when --deadline is set,
// after that duration.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	deadline, _ := cmd.Flags().GetDuration("deadline")
	if deadline <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	return ctx, func() {
		cancel()
		stop()
	}
}
