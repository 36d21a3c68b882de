// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/appraisal-engine/internal/decode"
	"github.com/pdiddy/appraisal-engine/internal/scoring"
)

var validateCmd = &cobra.Command{
	Use:   "validate <record.json>",
	Short: "Decode and validate a saved appraisal record",
	Long: `Validate runs a saved record (or a raw model reply) through the same decoder
and validator as analyze, then prints the scoring engine's independent
recomputation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		rec, err := decode.Decode(data)
		if err != nil {
			describeFailure(os.Stderr, err)
			return err
		}

		res := scoring.Recompute(rec)
		printSummary(os.Stdout, rec, res)

		fmt.Fprintln(os.Stdout, "\nRecomputed:")
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
