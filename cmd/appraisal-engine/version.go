// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the appraisal-engine build and its default models",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		info, ok := debug.ReadBuildInfo()
		_, err := fmt.Fprint(cmd.OutOrStdout(), versionString(info, ok, verbose))
		return err
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "include build metadata and default models per provider")

	rootCmd.AddCommand(versionCmd)
}

// versionString renders the version line. When the binary was built from a
// VCS checkout the short revision is appended, marked dirty if modified.
func versionString(info *debug.BuildInfo, ok, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "appraisal-engine %s", version)

	var revision, modified string
	if ok && info != nil {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value
			}
		}
	}
	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		fmt.Fprintf(&b, " (%s", revision)
		if modified == "true" {
			b.WriteString(", dirty")
		}
		b.WriteString(")")
	}
	b.WriteString("\n")

	if !verbose {
		return b.String()
	}
	if ok && info != nil {
		fmt.Fprintf(&b, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(&b, "  module:   %s\n", info.Main.Path)
	}
	for _, p := range types.Providers {
		fmt.Fprintf(&b, "  %-9s %s\n", string(p)+":", types.DefaultModels[p])
	}
	return b.String()
}
