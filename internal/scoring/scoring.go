// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring implements the deterministic rules that turn checklist
// sub-scores and a GRADE certainty assessment into a final percentage,
// quality rating and cross-framework conflict verdict. Every function is
// pure; nothing here depends on how the sub-scores were produced.
package scoring

import (
	"fmt"
	"math"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// Rating thresholds on the final percentage.
const (
	ModerateThreshold       = 40.0
	ModerateToHighThreshold = 65.0
	HighThreshold           = 80.0
)

// ConflictCeiling is the highest percentage a conflicted appraisal may keep:
// the top of the MODERATE band.
const ConflictCeiling = 64.0

// SmallSampleLimit is the human sample size below which certainty is
// downgraded two extra levels.
const SmallSampleLimit = 10

// SmallSampleDowngrades is the number of levels removed by a small sample.
const SmallSampleDowngrades = 2

// ValidityConcernLimit is the score under which a randomisation, blinding or
// baseline-similarity item counts as a serious validity concern.
const ValidityConcernLimit = 0.5

// Band is the closed interval of penalty points for a certainty level.
type Band struct {
	Lo, Hi float64
}

// Contains reports whether p lies within the band, allowing tol on each side.
func (b Band) Contains(p, tol float64) bool {
	return p >= b.Lo-tol && p <= b.Hi+tol
}

// Clamp returns p limited to the band.
func (b Band) Clamp(p float64) float64 {
	return math.Min(b.Hi, math.Max(b.Lo, p))
}

// PenaltyBands maps each certainty level to its penalty band.
var PenaltyBands = map[types.CertaintyLevel]Band{
	types.CertaintyHigh:     {0, 0},
	types.CertaintyModerate: {0, 5},
	types.CertaintyLow:      {10, 15},
	types.CertaintyVeryLow:  {15, 25},
}

// Tally sums the checklist scores. A not-applicable score contributes
// nothing and is excluded from the denominator.
func Tally(scores [types.ChecklistItems]types.Score) (total float64, applicable int) {
	for _, s := range scores {
		v, ok := s.Value()
		if !ok {
			continue
		}
		total += v
		applicable++
	}
	return total, applicable
}

// Percentage returns 100*total/applicable clamped to [0,100]. Zero
// applicable items yield 0.
func Percentage(total float64, applicable int) float64 {
	if applicable <= 0 {
		return 0
	}
	return clampPercent(100 * total / float64(applicable))
}

// RatingFor maps a final percentage onto the quality rating.
func RatingFor(pct float64) types.QualityRating {
	switch {
	case pct < ModerateThreshold:
		return types.RatingLow
	case pct < ModerateToHighThreshold:
		return types.RatingModerate
	case pct < HighThreshold:
		return types.RatingModerateToHigh
	default:
		return types.RatingHigh
	}
}

// Input is everything the engine needs for one appraisal.
type Input struct {
	Scores    [types.ChecklistItems]types.Score
	Certainty types.CertaintyOfEvidence

	// Penalty is the chosen point within the certainty band. When nil the
	// engine interpolates one from the number of flagged GRADE domains.
	Penalty *float64
}

// ConflictRule identifies which cross-framework rule fired.
type ConflictRule string

const (
	// ConflictMethodologyOverCertainty: methodology alone reaches HIGH while
	// certainty is LOW or VERY_LOW.
	ConflictMethodologyOverCertainty ConflictRule = "methodology_over_certainty"

	// ConflictCertaintyOverValidity: certainty is HIGH while randomisation,
	// blinding or baseline similarity scored below half.
	ConflictCertaintyOverValidity ConflictRule = "certainty_over_validity"
)

// Conflict describes a fired conflict rule.
type Conflict struct {
	Rule      ConflictRule `json:"rule" yaml:"rule"`
	Narrative string       `json:"narrative" yaml:"narrative"`
}

// Result is the engine's full derivation.
type Result struct {
	TotalScore            float64              `json:"total_score" yaml:"total_score"`
	ApplicableQuestions   int                  `json:"total_applicable_questions" yaml:"total_applicable_questions"`
	PreliminaryPercentage float64              `json:"preliminary_percentage" yaml:"preliminary_percentage"`
	Certainty             types.CertaintyLevel `json:"certainty" yaml:"certainty"`
	Downgrades            int                  `json:"downgrades" yaml:"downgrades"`
	SmallSample           bool                 `json:"small_sample" yaml:"small_sample"`
	Penalty               float64              `json:"penalty" yaml:"penalty"`
	Percentage            float64              `json:"percentage_score" yaml:"percentage_score"`
	Rating                types.QualityRating  `json:"quality_rating" yaml:"quality_rating"`
	Conflict              *Conflict            `json:"conflict,omitempty" yaml:"conflict,omitempty"`
}

// Evaluate applies the full rule set: tally, preliminary percentage,
// certainty downgrade, band penalty, clamp, rating and conflict caps.
func Evaluate(in Input) Result {
	total, applicable := Tally(in.Scores)
	prelim := Percentage(total, applicable)

	grade := Grade(in.Certainty)
	band := PenaltyBands[grade.Level]
	penalty := InterpolatePenalty(grade)
	if in.Penalty != nil {
		penalty = band.Clamp(*in.Penalty)
	}

	final := clampPercent(prelim - penalty)

	r := Result{
		TotalScore:            total,
		ApplicableQuestions:   applicable,
		PreliminaryPercentage: prelim,
		Certainty:             grade.Level,
		Downgrades:            grade.Downgrades,
		SmallSample:           grade.SmallSample,
		Penalty:               penalty,
	}

	if c := detectConflict(in.Scores, prelim, grade.Level); c != nil {
		final = math.Min(final, ConflictCeiling)
		r.Conflict = c
	}

	r.Percentage = final
	r.Rating = RatingFor(final)
	return r
}

func detectConflict(scores [types.ChecklistItems]types.Score, prelim float64, level types.CertaintyLevel) *Conflict {
	if prelim >= HighThreshold && (level == types.CertaintyLow || level == types.CertaintyVeryLow) {
		return &Conflict{
			Rule: ConflictMethodologyOverCertainty,
			Narrative: fmt.Sprintf(
				"Methodology score of %.1f%% conflicts with %s GRADE certainty; certainty takes precedence and the rating is capped at MODERATE.",
				prelim, level),
		}
	}
	if level != types.CertaintyHigh {
		return nil
	}
	var weak []int
	for _, n := range types.ValidityConcernItems {
		if v, ok := scores[n-1].Value(); ok && v < ValidityConcernLimit {
			weak = append(weak, n)
		}
	}
	if len(weak) == 0 {
		return nil
	}
	return &Conflict{
		Rule: ConflictCertaintyOverValidity,
		Narrative: fmt.Sprintf(
			"HIGH GRADE certainty conflicts with serious validity concerns on checklist items %v; the rating is capped at MODERATE.",
			weak),
	}
}

func clampPercent(p float64) float64 {
	return math.Min(100, math.Max(0, p))
}

// Recompute runs Evaluate on a record's own item scores, GRADE rubric and
// declared certainty penalty.
func Recompute(rec *types.Appraisal) Result {
	penalty := rec.OverallAssessment.CertaintyPenalty
	return Evaluate(Input{
		Scores:    rec.ItemScores(),
		Certainty: rec.AdditionalQualityAssessment.CertaintyOfEvidence,
		Penalty:   &penalty,
	})
}
