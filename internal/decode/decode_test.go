// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/valid_record.json")
	require.NoError(t, err)
	return data
}

// mutate decodes the fixture into a generic tree, applies edits and
// re-encodes it.
func mutate(t *testing.T, edits ...func(m map[string]any)) []byte {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(loadFixture(t), &m))
	for _, edit := range edits {
		edit(m)
	}
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return out
}

// set assigns v at a dotted path.
func set(path string, v any) func(map[string]any) {
	return func(m map[string]any) {
		parts := strings.Split(path, ".")
		cur := m
		for _, p := range parts[:len(parts)-1] {
			cur = cur[p].(map[string]any)
		}
		cur[parts[len(parts)-1]] = v
	}
}

// del removes the key at a dotted path.
func del(path string) func(map[string]any) {
	return func(m map[string]any) {
		parts := strings.Split(path, ".")
		cur := m
		for _, p := range parts[:len(parts)-1] {
			cur = cur[p].(map[string]any)
		}
		delete(cur, parts[len(parts)-1])
	}
}

const (
	secA = "casp_evaluation.section_a_validity."
	secB = "casp_evaluation.section_b_results."
	secC = "casp_evaluation.section_c_applicability."
	coe  = "additional_quality_assessment.certainty_of_evidence."
	oa   = "overall_assessment."
)

func TestDecodeValidRecord(t *testing.T) {
	rec, err := Decode(loadFixture(t))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, types.StudyOriginalArticle, rec.ArticleMetadata.StudyType)
	assert.Equal(t, types.ChecklistRCT, rec.CASPEvaluation.ChecklistUsed)
	assert.Equal(t, types.AnswerPartial, rec.CASPEvaluation.SectionBResults.Q4Blinding.Answer)
	assert.Equal(t, types.RiskModerate, rec.CASPEvaluation.SectionBResults.Q4Blinding.BiasRisk)
	assert.Equal(t, types.NumericScore(1), rec.CASPEvaluation.SectionCApplicability.Q11BenefitsWorthHarms.Score)
	assert.Equal(t, types.CertaintyModerate, rec.AdditionalQualityAssessment.CertaintyOfEvidence.Level)
	assert.Equal(t, 11, rec.OverallAssessment.TotalApplicableQuestions)
	assert.Equal(t, types.RatingHigh, rec.OverallAssessment.QualityRating)
	assert.Len(t, rec.OverallAssessment.WhatWasNotConsidered, 3)
	assert.Nil(t, rec.OverallAssessment.CrossModelConflicts)
	assert.Nil(t, rec.CASPEvaluation.SectionAValidity.Q1FocusedIssue.Notes)
	require.NotNil(t, rec.CASPEvaluation.SectionAValidity.Q3AllPatientsAccounted.Notes)
}

func TestDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"fixture", loadFixture(t)},
		{"not applicable last item", mutate(t,
			set(secC+"question_11_benefits_worth_harms.score", "N/A"),
			set(oa+"total_applicable_questions", 10),
			set(oa+"total_score", 8.5),
			set(oa+"percentage_score", 83),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := Decode(tt.input)
			require.NoError(t, err)

			exported, err := json.MarshalIndent(first, "", "  ")
			require.NoError(t, err)

			second, err := Decode(exported)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestDecodeNumericStringLastScore(t *testing.T) {
	rec, err := Decode(mutate(t,
		set(secC+"question_11_benefits_worth_harms.score", "0.5"),
		set(oa+"total_score", 9),
		set(oa+"percentage_score", 79.8),
		set(oa+"quality_rating", "MODERATE_TO_HIGH"),
	))
	require.NoError(t, err)
	assert.Equal(t, types.NumericScore(0.5), rec.CASPEvaluation.SectionCApplicability.Q11BenefitsWorthHarms.Score)

	out, err := json.Marshal(rec.CASPEvaluation.SectionCApplicability.Q11BenefitsWorthHarms)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"score":0.5`)
}

func TestDecodeIntegralFloatYear(t *testing.T) {
	raw := strings.Replace(string(loadFixture(t)), `"publication_year": 2024,`, `"publication_year": 2024.0,`, 1)
	require.Contains(t, raw, `2024.0`)

	rec, err := DecodeString(raw)
	require.NoError(t, err)
	assert.Equal(t, 2024, rec.ArticleMetadata.PublicationYear)
}

func TestTypedDecodeErrorPath(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantPath string
	}{
		{
			name:     "field named",
			err:      &json.UnmarshalTypeError{Value: "number 2024.5", Type: reflect.TypeOf(0), Field: "article_metadata.publication_year"},
			wantPath: "article_metadata.publication_year",
		},
		{
			name:     "no field",
			err:      &json.UnmarshalTypeError{Value: "array", Type: reflect.TypeOf(types.Appraisal{})},
			wantPath: rootPath,
		},
		{
			name:     "other error",
			err:      errors.New("json: unknown field \"confidence\""),
			wantPath: rootPath,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := typedDecodeError(tt.err)
			assert.Equal(t, tt.wantPath, ve.Path)
			assert.NotEmpty(t, ve.Reason)
		})
	}
}

func TestDecodeNotJSON(t *testing.T) {
	rec, err := DecodeString("not json")
	assert.Nil(t, rec)

	var de *DecodeError
	require.True(t, errors.As(err, &de), "want DecodeError, got %v", err)
	assert.Equal(t, "not json", de.Excerpt)
	assert.NotNil(t, de.Unwrap())
}

func TestDecodeTruncatedJSON(t *testing.T) {
	raw := loadFixture(t)
	rec, err := Decode(raw[:len(raw)/2])
	assert.Nil(t, rec)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.LessOrEqual(t, len(de.Excerpt), ExcerptLimit)
}

func TestExcerptIsBoundedAndValidUTF8(t *testing.T) {
	raw := []byte(strings.Repeat("é", 300))
	got := excerpt(raw)
	assert.LessOrEqual(t, len(got), ExcerptLimit)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "short", excerpt([]byte("short")))
}

func TestDecodeValidationFailures(t *testing.T) {
	eightItems := []any{"a", "b", "c", "d", "e", "f", "g", "h"}

	tests := []struct {
		name     string
		input    []byte
		wantPath string
	}{
		{
			name:     "empty what_was_not_considered",
			input:    mutate(t, set(oa+"what_was_not_considered", []any{})),
			wantPath: oa + "what_was_not_considered",
		},
		{
			name:     "eight what_was_not_considered entries",
			input:    mutate(t, set(oa+"what_was_not_considered", eightItems)),
			wantPath: oa + "what_was_not_considered",
		},
		{
			name:     "question text diverges",
			input:    mutate(t, set(secB+"question_4_blinding.question", "Was the trial blinded?")),
			wantPath: secB + "question_4_blinding.question",
		},
		{
			name:     "score above one",
			input:    mutate(t, set(secA+"question_2_randomization.score", 1.5)),
			wantPath: secA + "question_2_randomization.score",
		},
		{
			name:     "not applicable sentinel on a numeric item",
			input:    mutate(t, set(secA+"question_1_focused_issue.score", "N/A")),
			wantPath: secA + "question_1_focused_issue.score",
		},
		{
			name:     "unknown sentinel on last item",
			input:    mutate(t, set(secC+"question_11_benefits_worth_harms.score", "maybe")),
			wantPath: secC + "question_11_benefits_worth_harms.score",
		},
		{
			name:     "precision answer on effect-size item",
			input:    mutate(t, set(secB+"question_7_effect_size.answer", "HIGH")),
			wantPath: secB + "question_7_effect_size.answer",
		},
		{
			name:     "bradford hill count above nine",
			input:    mutate(t, set("additional_quality_assessment.mechanistic_strength.bradford_hill_criteria_met", 10)),
			wantPath: "additional_quality_assessment.mechanistic_strength.bradford_hill_criteria_met",
		},
		{
			name:     "malformed evaluation date",
			input:    mutate(t, set("casp_evaluation.evaluation_date", "15/01/2026")),
			wantPath: "casp_evaluation.evaluation_date",
		},
		{
			name:     "frameworks do not match study type",
			input:    mutate(t, set("article_metadata.frameworks_applied", []any{"SANRA", "PICO_SCOPE"})),
			wantPath: "article_metadata.frameworks_applied",
		},
		{
			name:     "total score disagrees with items",
			input:    mutate(t, set(oa+"total_score", 9)),
			wantPath: oa + "total_score",
		},
		{
			name:     "ten applicable questions with numeric last item",
			input:    mutate(t, set(oa+"total_applicable_questions", 10)),
			wantPath: oa + "total_applicable_questions",
		},
		{
			name:     "certainty level disagrees with rubric",
			input:    mutate(t, set(coe+"level", "HIGH")),
			wantPath: coe + "level",
		},
		{
			name:     "penalty outside band",
			input:    mutate(t, set(oa+"certainty_penalty", 7)),
			wantPath: oa + "certainty_penalty",
		},
		{
			name: "percentage disagrees with arithmetic",
			input: mutate(t,
				set(oa+"percentage_score", 70),
				set(oa+"quality_rating", "MODERATE_TO_HIGH"),
			),
			wantPath: oa + "percentage_score",
		},
		{
			name:     "rating disagrees with percentage",
			input:    mutate(t, set(oa+"quality_rating", "MODERATE")),
			wantPath: oa + "quality_rating",
		},
		{
			name: "declared percentage crosses a rating threshold",
			input: mutate(t,
				set(secA+"question_1_focused_issue.score", 0.8),
				set(oa+"total_score", 9.3),
				set(oa+"certainty_penalty", 5.0),
				set(oa+"percentage_score", 80.0),
				set(oa+"quality_rating", "HIGH"),
			),
			wantPath: oa + "quality_rating",
		},
		{
			name: "conflict without narrative",
			input: mutate(t,
				set(coe+"smallest_human_sample_size", 7),
				set(coe+"level", "VERY_LOW"),
				set(oa+"certainty_penalty", 15),
				set(oa+"percentage_score", 64),
				set(oa+"quality_rating", "MODERATE"),
			),
			wantPath: oa + "cross_model_conflicts",
		},
		{
			name:     "blank justification",
			input:    mutate(t, set(oa+"scientific_justification", "   ")),
			wantPath: oa + "scientific_justification",
		},
		{
			name:     "null required list",
			input:    mutate(t, set(oa+"key_strengths", nil)),
			wantPath: oa + "key_strengths",
		},
		{
			name:     "root is not an object",
			input:    []byte(`[]`),
			wantPath: rootPath,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(tt.input)
			assert.Nil(t, rec)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantPath, ve.Path, "reason: %s", ve.Reason)
			assert.NotEmpty(t, ve.Reason)
		})
	}
}

func TestDecodeMissingAndUnknownFields(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		wantPrefix string
	}{
		{"missing justification", mutate(t, del(oa+"scientific_justification")), "overall_assessment"},
		{"missing section", mutate(t, del("casp_evaluation.section_b_results")), "casp_evaluation"},
		{"unknown field", mutate(t, set(oa+"confidence", 0.9)), "overall_assessment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(tt.input)
			assert.Nil(t, rec)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.True(t, strings.HasPrefix(ve.Path, tt.wantPrefix), "path %q", ve.Path)
		})
	}
}

func TestDecodeConflictWithNarrative(t *testing.T) {
	rec, err := Decode(mutate(t,
		set(coe+"smallest_human_sample_size", 7),
		set(coe+"level", "VERY_LOW"),
		set(oa+"certainty_penalty", 15),
		set(oa+"percentage_score", 64),
		set(oa+"quality_rating", "MODERATE"),
		set(oa+"cross_model_conflicts", "High CASP score conflicts with VERY_LOW GRADE certainty (N=7)."),
	))
	require.NoError(t, err)
	require.NotNil(t, rec.OverallAssessment.CrossModelConflicts)
	assert.Equal(t, types.RatingModerate, rec.OverallAssessment.QualityRating)
}

func TestPointerToPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", rootPath},
		{"/overall_assessment/what_was_not_considered", "overall_assessment.what_was_not_considered"},
		{"/overall_assessment/what_was_not_considered/2", "overall_assessment.what_was_not_considered[2]"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pointerToPath(tt.in))
	}
}

func TestNamedProperty(t *testing.T) {
	assert.Equal(t, "scientific_justification", namedProperty("missing properties: 'scientific_justification'"))
	assert.Equal(t, "confidence", namedProperty("additionalProperties 'confidence' not allowed"))
	assert.Equal(t, "", namedProperty("minimum 3 items required, but found 0 items"))
}

func TestRecordSchemaCompiles(t *testing.T) {
	sch, err := recordSchema()
	require.NoError(t, err)
	require.NotNil(t, sch)
}

func TestVerifyTypedRecord(t *testing.T) {
	tests := []struct {
		name     string
		edit     func(r *types.Appraisal)
		wantPath string
	}{
		{
			name:     "valid",
			edit:     func(r *types.Appraisal) {},
			wantPath: "",
		},
		{
			name:     "missing not-considered list",
			edit:     func(r *types.Appraisal) { r.OverallAssessment.WhatWasNotConsidered = nil },
			wantPath: oa + "what_was_not_considered",
		},
		{
			name:     "blank not-considered entry",
			edit:     func(r *types.Appraisal) { r.OverallAssessment.WhatWasNotConsidered[1] = " " },
			wantPath: oa + "what_was_not_considered[1]",
		},
		{
			name: "negative score",
			edit: func(r *types.Appraisal) {
				r.CASPEvaluation.SectionCApplicability.Q9ResultsApplicable.Score = -0.1
			},
			wantPath: secC + "question_9_results_applicable.score",
		},
		{
			name: "mechanistic count out of range",
			edit: func(r *types.Appraisal) {
				r.AdditionalQualityAssessment.MechanisticStrength.BradfordHillCriteriaMet = -1
			},
			wantPath: "additional_quality_assessment.mechanistic_strength.bradford_hill_criteria_met",
		},
		{
			name: "unknown study type",
			edit: func(r *types.Appraisal) {
				r.ArticleMetadata.StudyType = "CASE_REPORT"
			},
			wantPath: "article_metadata.study_type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(loadFixture(t))
			require.NoError(t, err)
			tt.edit(rec)

			err = Verify(rec)
			if tt.wantPath == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantPath, ve.Path)
		})
	}
}
