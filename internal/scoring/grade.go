// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"math"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// gradeDomains is the number of GRADE downgrade domains.
const gradeDomains = 5

// GradeResult is the outcome of the downgrade rubric.
type GradeResult struct {
	Level       types.CertaintyLevel
	Downgrades  int
	SmallSample bool
	// Flagged counts domains rated SERIOUS or worse. Imprecision counts as
	// flagged when the small-sample rule fires.
	Flagged int
}

// Grade runs the downgrade rubric: start at HIGH, drop one level per
// SERIOUS and two per VERY_SERIOUS domain, drop two more when the smallest
// human sample is below SmallSampleLimit, and floor at VERY_LOW.
func Grade(c types.CertaintyOfEvidence) GradeResult {
	domains := []types.Concern{c.RiskOfBias, c.Inconsistency, c.Indirectness, c.Imprecision, c.PublicationBias}

	var g GradeResult
	for _, d := range domains {
		n := d.Downgrades()
		g.Downgrades += n
		if n > 0 {
			g.Flagged++
		}
	}

	if c.SmallestHumanSampleSize != nil && *c.SmallestHumanSampleSize < SmallSampleLimit {
		g.SmallSample = true
		g.Downgrades += SmallSampleDowngrades
		if c.Imprecision.Downgrades() == 0 {
			g.Flagged++
		}
	}

	idx := min(g.Downgrades, len(types.CertaintyLevels)-1)
	g.Level = types.CertaintyLevels[idx]
	return g
}

// InterpolatePenalty picks the deterministic point within the band of
// g.Level: the band floor plus the flagged-domain share of the band width,
// rounded to one decimal.
func InterpolatePenalty(g GradeResult) float64 {
	band := PenaltyBands[g.Level]
	severity := float64(g.Flagged) / gradeDomains
	p := band.Lo + severity*(band.Hi-band.Lo)
	return band.Clamp(math.Round(p*10) / 10)
}
