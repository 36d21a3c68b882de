// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the appraisal-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/appraisal-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is configured in PersistentPreRunE from --log-level and --log-format.
var logger = slog.Default()

// rootCmd is the base command for the appraisal-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "appraisal-engine",
	Short: "Structured critical appraisal of scientific PDFs",
	Long: `appraisal-engine extracts the text of a scientific paper, asks a language
model for a CASP/GRADE/PICO appraisal as JSON, and accepts the reply only if it
passes the record schema and the scoring rules.

Subcommands cover each stage: extract shows the document text, prompt shows
the instruction bundle, analyze runs the full pipeline, validate re-checks a
saved record, schema prints the record schema, and serve exposes the same
pipeline over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("secrets.loaded", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./appraisal-engine.yaml or ~/.config/appraisal-engine/appraisal-engine.yaml)")
	pf.String("provider", "", "generation provider: gemini, openai, or claude")
	pf.String("model", "", "model identifier (default depends on provider)")
	pf.String("api-key", "", "generation service API key")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.Duration("deadline", 0, "abort the command after this long (0 means no deadline)")

	bindFlag(pf.Lookup("provider"), "ai.provider")
	bindFlag(pf.Lookup("model"), "ai.model")
	bindFlag(pf.Lookup("api-key"), "ai.api_key")
	bindFlag(pf.Lookup("log-level"), "log.level")
	bindFlag(pf.Lookup("log-format"), "log.format")
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("appraisal-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "appraisal-engine"))
		}
	}

	viper.SetEnvPrefix("APPRAISAL_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
