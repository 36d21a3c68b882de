// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionString(t *testing.T) {
	built := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Path: "github.com/pdiddy/appraisal-engine"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name      string
		info      *debug.BuildInfo
		ok        bool
		verbose   bool
		wantFirst string
		want      []string
		notWant   []string
	}{
		{
			name:      "no build info",
			wantFirst: "appraisal-engine " + version,
			notWant:   []string{"gemini"},
		},
		{
			name:      "vcs revision is shortened and marked dirty",
			info:      built,
			ok:        true,
			wantFirst: "appraisal-engine " + version + " (0123456789ab, dirty)",
			notWant:   []string{"go1.24.0"},
		},
		{
			name:      "verbose lists build metadata and default models",
			info:      built,
			ok:        true,
			verbose:   true,
			wantFirst: "appraisal-engine " + version + " (0123456789ab, dirty)",
			want:      []string{"go1.24.0", "github.com/pdiddy/appraisal-engine", "gemini-2.5-flash", "openai:", "claude:"},
		},
		{
			name:      "verbose without build info still lists models",
			verbose:   true,
			wantFirst: "appraisal-engine " + version,
			want:      []string{"gemini-2.5-flash"},
			notWant:   []string{"go:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := versionString(tt.info, tt.ok, tt.verbose)
			lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
			assert.Equal(t, tt.wantFirst, lines[0])
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, n := range tt.notWant {
				assert.NotContains(t, got, n)
			}
		})
	}
}
