// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
	"github.com/pdiddy/appraisal-engine/internal/export"
	"github.com/pdiddy/appraisal-engine/internal/scoring"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Appraise a scientific PDF",
	Long: `Analyze extracts the paper's text, sends it with the appraisal prompt to the
configured model, and validates the JSON reply. A valid record is summarised
on stdout and optionally exported; any failure is reported with its kind.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("out", "o", "", "write the record to this file (- for stdout)")
	analyzeCmd.Flags().String("format", "", "export format: json, yaml, or xlsx (default from --out extension, else json)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	formatName, _ := cmd.Flags().GetString("format")
	if formatName == "" && out != "" && out != "-" {
		formatName = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pipeline := appraise.NewPipeline(cfg, logger)
	rec, err := pipeline.Analyze(ctx, f, resolveAPIKey(cfg.AI, loadedSecrets))
	if err != nil {
		describeFailure(os.Stderr, err)
		return err
	}

	switch out {
	case "":
		printSummary(os.Stdout, rec, scoring.Recompute(rec))
	case "-":
		return export.Write(format, os.Stdout, rec)
	default:
		printSummary(os.Stdout, rec, scoring.Recompute(rec))
		if err := export.WriteFile(format, out, rec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	}
	return nil
}
