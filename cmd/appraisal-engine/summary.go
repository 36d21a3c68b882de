// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
	"github.com/pdiddy/appraisal-engine/internal/decode"
	"github.com/pdiddy/appraisal-engine/internal/scoring"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// printSummary writes a short human-readable scorecard.
func printSummary(w io.Writer, rec *types.Appraisal, res scoring.Result) {
	md := rec.ArticleMetadata
	oa := rec.OverallAssessment

	fmt.Fprintf(w, "%s\n", md.Title)
	if len(md.Authors) > 0 {
		fmt.Fprintf(w, "  %s (%s, %d)\n", strings.Join(md.Authors, ", "), md.Journal, md.PublicationYear)
	}
	fmt.Fprintf(w, "  Study type:  %s (%s)\n", md.StudyType, joinFrameworks(md.FrameworksApplied))
	fmt.Fprintf(w, "  Checklist:   %.1f / %d (preliminary %.1f%%)\n", oa.TotalScore, oa.TotalApplicableQuestions, res.PreliminaryPercentage)
	fmt.Fprintf(w, "  Certainty:   %s (%d downgrades, penalty %.1f)\n", res.Certainty, res.Downgrades, oa.CertaintyPenalty)
	fmt.Fprintf(w, "  Score:       %.1f%% %s\n", oa.PercentageScore, oa.QualityRating)
	if res.Conflict != nil {
		fmt.Fprintf(w, "  Conflict:    %s\n", res.Conflict.Narrative)
	}
	if oa.ReliabilityConclusion != "" {
		fmt.Fprintf(w, "\n%s\n", oa.ReliabilityConclusion)
	}
}

func joinFrameworks(fs []types.Framework) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}

// describeFailure expands a pipeline or decode failure for the terminal.
func describeFailure(w io.Writer, err error) {
	if kind, ok := appraise.KindOf(err); ok {
		fmt.Fprintf(w, "analysis failed: %s\n", kind)
	}
	var ve *decode.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(w, "  field:  %s\n  reason: %s\n", ve.Path, ve.Reason)
		return
	}
	var de *decode.DecodeError
	if errors.As(err, &de) {
		fmt.Fprintf(w, "  parse error: %v\n  response starts: %q\n", de.Err, de.Excerpt)
		return
	}
	fmt.Fprintf(w, "  %v\n", err)
}
