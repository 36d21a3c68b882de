// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/appraisal-engine/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the appraisal record",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := schema.JSON()
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			_, err := fmt.Fprintln(os.Stdout, string(data))
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		return os.WriteFile(out, append(data, '\n'), 0o644)
	},
}

func init() {
	schemaCmd.Flags().StringP("out", "o", "", "write the schema to this file")

	rootCmd.AddCommand(schemaCmd)
}
