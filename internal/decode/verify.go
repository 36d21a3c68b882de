// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/pdiddy/appraisal-engine/internal/scoring"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// Tolerances for figures the model computes and rounds.
const (
	totalTolerance      = 0.01
	penaltyTolerance    = 0.05
	percentageTolerance = 0.5
)

const dateLayout = "2006-01-02"

// Verify checks the invariants of a typed record: canonical questions,
// per-item answer sets and score ranges, list bounds, framework selection,
// and the scoring arithmetic re-run through the scoring engine. It returns
// the first violation as a *ValidationError.
func Verify(rec *types.Appraisal) error {
	if err := verifyChecklist(rec); err != nil {
		return err
	}
	if err := verifyMetadata(rec); err != nil {
		return err
	}
	if err := verifyAdditional(rec); err != nil {
		return err
	}
	return verifyOverall(rec)
}

func verifyChecklist(rec *types.Appraisal) error {
	ce := rec.CASPEvaluation
	if _, err := time.Parse(dateLayout, ce.EvaluationDate); err != nil {
		return invalid("casp_evaluation.evaluation_date", "must be a YYYY-MM-DD date, got %q", ce.EvaluationDate)
	}
	if !slices.Contains(types.ChecklistTypes, ce.ChecklistUsed) {
		return invalid("casp_evaluation.checklist_used", "unknown checklist %q", ce.ChecklistUsed)
	}

	questions := rec.Questions()
	answers := rec.Answers()
	scores := rec.ItemScores()
	for i, item := range types.Checklist {
		if questions[i] != item.Question {
			return invalid(item.Path()+".question", "must be %q, got %q", item.Question, questions[i])
		}
		if !slices.Contains(item.Answers, answers[i]) {
			return invalid(item.Path()+".answer", "answer %q not allowed for item %d", answers[i], item.Number)
		}
		v, ok := scores[i].Value()
		if !ok {
			if item.Number != types.ChecklistItems {
				return invalid(item.Path()+".score", "only item %d may be %q", types.ChecklistItems, types.NotApplicableScore)
			}
			continue
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			return invalid(item.Path()+".score", "must be within [0,1], got %v", v)
		}
	}
	return nil
}

func verifyMetadata(rec *types.Appraisal) error {
	md := rec.ArticleMetadata
	want, ok := types.Frameworks[md.StudyType]
	if !ok {
		return invalid("article_metadata.study_type", "unknown study type %q", md.StudyType)
	}
	if !sameFrameworks(md.FrameworksApplied, want) {
		return invalid("article_metadata.frameworks_applied", "%s requires %v, got %v", md.StudyType, want, md.FrameworksApplied)
	}
	return nil
}

func verifyAdditional(rec *types.Appraisal) error {
	n := rec.AdditionalQualityAssessment.MechanisticStrength.BradfordHillCriteriaMet
	if n < 0 || n > types.MaxBradfordHill {
		return invalid("additional_quality_assessment.mechanistic_strength.bradford_hill_criteria_met", "must be within [0,%d], got %d", types.MaxBradfordHill, n)
	}
	coe := rec.AdditionalQualityAssessment.CertaintyOfEvidence
	if s := coe.SmallestHumanSampleSize; s != nil && *s < 1 {
		return invalid("additional_quality_assessment.certainty_of_evidence.smallest_human_sample_size", "must be positive, got %d", *s)
	}
	return nil
}

func verifyOverall(rec *types.Appraisal) error {
	oa := rec.OverallAssessment
	coe := rec.AdditionalQualityAssessment.CertaintyOfEvidence

	if n := len(oa.WhatWasNotConsidered); n < types.MinNotConsidered || n > types.MaxNotConsidered {
		return invalid("overall_assessment.what_was_not_considered", "must list %d to %d entries, got %d", types.MinNotConsidered, types.MaxNotConsidered, n)
	}
	for i, s := range oa.WhatWasNotConsidered {
		if strings.TrimSpace(s) == "" {
			return invalid(fmt.Sprintf("overall_assessment.what_was_not_considered[%d]", i), "must not be blank")
		}
	}
	if strings.TrimSpace(oa.ScientificJustification) == "" {
		return invalid("overall_assessment.scientific_justification", "must not be blank")
	}

	res := scoring.Recompute(rec)

	if math.Abs(oa.TotalScore-res.TotalScore) > totalTolerance {
		return invalid("overall_assessment.total_score", "item scores sum to %v, got %v", res.TotalScore, oa.TotalScore)
	}
	if oa.TotalApplicableQuestions != res.ApplicableQuestions {
		return invalid("overall_assessment.total_applicable_questions", "item %d score implies %d, got %d",
			types.ChecklistItems, res.ApplicableQuestions, oa.TotalApplicableQuestions)
	}
	if coe.Level != res.Certainty {
		return invalid("additional_quality_assessment.certainty_of_evidence.level", "downgrade rubric gives %s, got %s", res.Certainty, coe.Level)
	}
	if band := scoring.PenaltyBands[res.Certainty]; !band.Contains(oa.CertaintyPenalty, penaltyTolerance) {
		return invalid("overall_assessment.certainty_penalty", "%s certainty requires a penalty within [%v,%v], got %v",
			res.Certainty, band.Lo, band.Hi, oa.CertaintyPenalty)
	}
	if math.Abs(oa.PercentageScore-res.Percentage) > percentageTolerance {
		return invalid("overall_assessment.percentage_score", "scoring rules give %.1f, got %v", res.Percentage, oa.PercentageScore)
	}
	if want := scoring.RatingFor(oa.PercentageScore); oa.QualityRating != want {
		return invalid("overall_assessment.quality_rating", "percentage %v maps to %s, got %s", oa.PercentageScore, want, oa.QualityRating)
	}
	if oa.QualityRating != res.Rating {
		return invalid("overall_assessment.quality_rating", "scoring rules give %s (%.1f%%), got %s", res.Rating, res.Percentage, oa.QualityRating)
	}
	if res.Conflict != nil && (oa.CrossModelConflicts == nil || strings.TrimSpace(*oa.CrossModelConflicts) == "") {
		return invalid("overall_assessment.cross_model_conflicts", "required when %s conflict applies", res.Conflict.Rule)
	}
	return nil
}

func sameFrameworks(got, want []types.Framework) bool {
	if len(got) != len(want) {
		return false
	}
	for _, w := range want {
		if !slices.Contains(got, w) {
			return false
		}
	}
	return true
}

func invalid(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
