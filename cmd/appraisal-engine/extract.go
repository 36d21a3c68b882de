// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Print the text that analyze would send to the model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
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

		ext, err := appraise.NewPipeline(cfg, logger).ExtractText(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, ext.Text)
		fmt.Fprintf(os.Stderr, "%d of %d pages yielded text, %d characters\n", ext.TextPages, ext.Pages, len(ext.Text))
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("layout", false, "keep the physical page layout")
	extractCmd.Flags().Int("max-pages", 0, "extract only the first N pages (0 means all)")
	bindFlag(extractCmd.Flags().Lookup("layout"), "text.layout")
	bindFlag(extractCmd.Flags().Lookup("max-pages"), "text.max_pages")

	rootCmd.AddCommand(extractCmd)
}
