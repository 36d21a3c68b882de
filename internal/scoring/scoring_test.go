// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"encoding/json"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

func numeric(vals ...float64) [types.ChecklistItems]types.Score {
	var out [types.ChecklistItems]types.Score
	for i, v := range vals {
		out[i] = types.NumericScore(v)
	}
	return out
}

func withNA(vals ...float64) [types.ChecklistItems]types.Score {
	out := numeric(vals...)
	out[types.ChecklistItems-1] = types.NotApplicable()
	return out
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func certainty(rob, imp types.Concern, sample *int) types.CertaintyOfEvidence {
	return types.CertaintyOfEvidence{
		RiskOfBias:              rob,
		Inconsistency:           types.ConcernNotSerious,
		Indirectness:            types.ConcernNotSerious,
		Imprecision:             imp,
		PublicationBias:         types.ConcernNotSerious,
		SmallestHumanSampleSize: sample,
	}
}

func TestTally(t *testing.T) {
	tests := []struct {
		name           string
		scores         [types.ChecklistItems]types.Score
		wantTotal      float64
		wantApplicable int
	}{
		{
			name:           "eleven numeric scores",
			scores:         numeric(1, 0.5, 0, 1, 0.25, 1, 0.5, 0.75, 1, 0, 1),
			wantTotal:      7,
			wantApplicable: 11,
		},
		{
			name:           "last item not applicable",
			scores:         withNA(1, 1, 1, 1, 1, 1, 1, 1, 1, 1),
			wantTotal:      10,
			wantApplicable: 10,
		},
		{
			name:           "all zero",
			scores:         numeric(0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0),
			wantTotal:      0,
			wantApplicable: 11,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, applicable := Tally(tt.scores)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantApplicable, applicable)
		})
	}
}

func TestTallyExactSum(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		var vals []float64
		var want float64
		for j := 0; j < types.ChecklistItems; j++ {
			v := float64(r.Intn(5)) / 4
			vals = append(vals, v)
			want += v
		}
		total, applicable := Tally(numeric(vals...))
		require.Equal(t, 11, applicable)
		require.Equal(t, want, total)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		applicable int
		want       float64
	}{
		{"perfect", 11, 11, 100},
		{"half", 5, 10, 50},
		{"over one hundred clamps", 14.3, 11, 100},
		{"negative clamps", -2, 10, 0},
		{"no applicable items", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentage(tt.total, tt.applicable), 1e-9)
		})
	}
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want types.QualityRating
	}{
		{0, types.RatingLow},
		{39.9, types.RatingLow},
		{40, types.RatingModerate},
		{64, types.RatingModerate},
		{64.9, types.RatingModerate},
		{65, types.RatingModerateToHigh},
		{79.9, types.RatingModerateToHigh},
		{80, types.RatingHigh},
		{100, types.RatingHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RatingFor(tt.pct), "pct=%v", tt.pct)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name        string
		in          types.CertaintyOfEvidence
		wantLevel   types.CertaintyLevel
		wantDown    int
		wantSmall   bool
		wantFlagged int
	}{
		{
			name:      "no concerns stays high",
			in:        certainty(types.ConcernNotSerious, types.ConcernNotSerious, intPtr(240)),
			wantLevel: types.CertaintyHigh,
		},
		{
			name:        "one serious domain",
			in:          certainty(types.ConcernSerious, types.ConcernNotSerious, nil),
			wantLevel:   types.CertaintyModerate,
			wantDown:    1,
			wantFlagged: 1,
		},
		{
			name:        "very serious counts two levels",
			in:          certainty(types.ConcernVerySerious, types.ConcernNotSerious, nil),
			wantLevel:   types.CertaintyLow,
			wantDown:    2,
			wantFlagged: 1,
		},
		{
			name:        "small sample alone drops two levels",
			in:          certainty(types.ConcernNotSerious, types.ConcernNotSerious, intPtr(9)),
			wantLevel:   types.CertaintyLow,
			wantDown:    2,
			wantSmall:   true,
			wantFlagged: 1,
		},
		{
			name:        "sample of ten is not small",
			in:          certainty(types.ConcernNotSerious, types.ConcernNotSerious, intPtr(10)),
			wantLevel:   types.CertaintyHigh,
			wantDown:    0,
			wantFlagged: 0,
		},
		{
			name:        "seven humans without blinding is lowest",
			in:          certainty(types.ConcernSerious, types.ConcernNotSerious, intPtr(7)),
			wantLevel:   types.CertaintyVeryLow,
			wantDown:    3,
			wantSmall:   true,
			wantFlagged: 2,
		},
		{
			name:        "downgrades floor at very low",
			in:          certainty(types.ConcernVerySerious, types.ConcernVerySerious, intPtr(3)),
			wantLevel:   types.CertaintyVeryLow,
			wantDown:    6,
			wantSmall:   true,
			wantFlagged: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Grade(tt.in)
			assert.Equal(t, tt.wantLevel, g.Level)
			assert.Equal(t, tt.wantDown, g.Downgrades)
			assert.Equal(t, tt.wantSmall, g.SmallSample)
			assert.Equal(t, tt.wantFlagged, g.Flagged)
		})
	}
}

func TestInterpolatePenalty(t *testing.T) {
	tests := []struct {
		name string
		g    GradeResult
		want float64
	}{
		{"high has no penalty", GradeResult{Level: types.CertaintyHigh}, 0},
		{"moderate one domain", GradeResult{Level: types.CertaintyModerate, Flagged: 1}, 1},
		{"low two domains", GradeResult{Level: types.CertaintyLow, Flagged: 2}, 12},
		{"very low two domains", GradeResult{Level: types.CertaintyVeryLow, Flagged: 2}, 19},
		{"very low all domains", GradeResult{Level: types.CertaintyVeryLow, Flagged: 5}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolatePenalty(tt.g)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.True(t, PenaltyBands[tt.g.Level].Contains(got, 0))
		})
	}
}

func TestEvaluatePerfectMethodologyLowestCertainty(t *testing.T) {
	r := Evaluate(Input{
		Scores:    numeric(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1),
		Certainty: certainty(types.ConcernVerySerious, types.ConcernSerious, nil),
	})

	assert.Equal(t, 11.0, r.TotalScore)
	assert.Equal(t, 11, r.ApplicableQuestions)
	assert.InDelta(t, 100, r.PreliminaryPercentage, 1e-9)
	assert.Equal(t, types.CertaintyVeryLow, r.Certainty)
	assert.Contains(t, []types.QualityRating{types.RatingLow, types.RatingModerate}, r.Rating)
	require.NotNil(t, r.Conflict)
	assert.Equal(t, ConflictMethodologyOverCertainty, r.Conflict.Rule)
	assert.NotEmpty(t, r.Conflict.Narrative)
	assert.LessOrEqual(t, r.Percentage, ConflictCeiling)
}

func TestEvaluateSmallUnblindedTrial(t *testing.T) {
	// Seven human subjects and no blinding, with a high raw methodology sum.
	scores := numeric(1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1)
	r := Evaluate(Input{
		Scores:    scores,
		Certainty: certainty(types.ConcernSerious, types.ConcernNotSerious, intPtr(7)),
	})

	assert.Equal(t, types.CertaintyVeryLow, r.Certainty)
	assert.True(t, r.SmallSample)
	assert.Equal(t, 3, r.Downgrades)
	assert.True(t, PenaltyBands[types.CertaintyVeryLow].Contains(r.Penalty, 0))
	assert.LessOrEqual(t, r.Rating.Rank(), types.RatingModerate.Rank())
	require.NotNil(t, r.Conflict)
}

func TestEvaluateHighCertaintyValidityConflict(t *testing.T) {
	r := Evaluate(Input{
		Scores:    numeric(1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1),
		Certainty: certainty(types.ConcernNotSerious, types.ConcernNotSerious, intPtr(400)),
	})

	assert.Equal(t, types.CertaintyHigh, r.Certainty)
	assert.Equal(t, 0.0, r.Penalty)
	require.NotNil(t, r.Conflict)
	assert.Equal(t, ConflictCertaintyOverValidity, r.Conflict.Rule)
	assert.Contains(t, r.Conflict.Narrative, "[4]")
	assert.Equal(t, ConflictCeiling, r.Percentage)
	assert.Equal(t, types.RatingModerate, r.Rating)
}

func TestEvaluateNoConflict(t *testing.T) {
	r := Evaluate(Input{
		Scores:    withNA(1, 1, 1, 0.5, 1, 1, 0.5, 0.5, 1, 1),
		Certainty: certainty(types.ConcernSerious, types.ConcernNotSerious, intPtr(120)),
		Penalty:   floatPtr(2),
	})

	assert.Equal(t, 10, r.ApplicableQuestions)
	assert.InDelta(t, 85, r.PreliminaryPercentage, 1e-9)
	assert.Equal(t, types.CertaintyModerate, r.Certainty)
	assert.Equal(t, 2.0, r.Penalty)
	assert.InDelta(t, 83, r.Percentage, 1e-9)
	assert.Equal(t, types.RatingHigh, r.Rating)
	assert.Nil(t, r.Conflict)
}

func TestEvaluateClampsDeclaredPenaltyIntoBand(t *testing.T) {
	r := Evaluate(Input{
		Scores:    numeric(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5),
		Certainty: certainty(types.ConcernVerySerious, types.ConcernNotSerious, nil),
		Penalty:   floatPtr(40),
	})

	assert.Equal(t, types.CertaintyLow, r.Certainty)
	assert.Equal(t, 15.0, r.Penalty)
	assert.InDelta(t, 35, r.Percentage, 1e-9)
	assert.Equal(t, types.RatingLow, r.Rating)
}

func TestEvaluateInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	concerns := types.Concerns
	for i := 0; i < 500; i++ {
		var vals []float64
		for j := 0; j < types.ChecklistItems; j++ {
			// Deliberately exceeds [0,1] to exercise clamping.
			vals = append(vals, r.Float64()*1.4)
		}
		scores := numeric(vals...)
		if r.Intn(3) == 0 {
			scores[types.ChecklistItems-1] = types.NotApplicable()
		}
		var sample *int
		if r.Intn(2) == 0 {
			sample = intPtr(1 + r.Intn(40))
		}
		in := Input{
			Scores: scores,
			Certainty: types.CertaintyOfEvidence{
				RiskOfBias:              concerns[r.Intn(len(concerns))],
				Inconsistency:           concerns[r.Intn(len(concerns))],
				Indirectness:            concerns[r.Intn(len(concerns))],
				Imprecision:             concerns[r.Intn(len(concerns))],
				PublicationBias:         concerns[r.Intn(len(concerns))],
				SmallestHumanSampleSize: sample,
			},
		}

		res := Evaluate(in)
		require.GreaterOrEqual(t, res.Percentage, 0.0)
		require.LessOrEqual(t, res.Percentage, 100.0)
		require.Equal(t, RatingFor(res.Percentage), res.Rating)
		require.True(t, PenaltyBands[res.Certainty].Contains(res.Penalty, 0))
		if res.Conflict != nil {
			require.LessOrEqual(t, res.Rating.Rank(), types.RatingModerate.Rank())
			require.NotEmpty(t, res.Conflict.Narrative)
		}
		if res.PreliminaryPercentage >= HighThreshold &&
			(res.Certainty == types.CertaintyLow || res.Certainty == types.CertaintyVeryLow) {
			require.NotNil(t, res.Conflict)
		}
		require.Equal(t, res, Evaluate(in), "engine must be deterministic")
	}
}

func TestRecomputeFixture(t *testing.T) {
	data, err := os.ReadFile("../decode/testdata/valid_record.json")
	require.NoError(t, err)
	var rec types.Appraisal
	require.NoError(t, json.Unmarshal(data, &rec))

	res := Recompute(&rec)
	assert.InDelta(t, 9.5, res.TotalScore, 1e-9)
	assert.Equal(t, 11, res.ApplicableQuestions)
	assert.Equal(t, types.CertaintyModerate, res.Certainty)
	assert.InDelta(t, 2.0, res.Penalty, 1e-9)
	assert.InDelta(t, 84.4, res.Percentage, 0.05)
	assert.Equal(t, types.RatingHigh, res.Rating)
	assert.Nil(t, res.Conflict)
}
