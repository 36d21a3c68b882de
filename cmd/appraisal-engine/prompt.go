// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <pdf>",
	Short: "Print the composed prompt without calling a model",
	Long: `Prompt extracts the paper's text and prints the full instruction bundle
(rubric, checklist questions, scoring rules, schema and document text). With
--plain the argument is read as an already-extracted text file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		pipeline := appraise.NewPipeline(cfg, logger)

		var text string
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text = string(data)
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()
			ext, err := pipeline.ExtractText(ctx, f)
			if err != nil {
				return err
			}
			text = ext.Text
		}

		body, err := pipeline.ComposePrompt(text)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, body)
		return nil
	},
}

func init() {
	promptCmd.Flags().Bool("plain", false, "treat the argument as a plain-text file")

	rootCmd.AddCommand(promptCmd)
}
