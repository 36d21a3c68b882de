// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt composes the single instruction bundle sent to the
// generation service: role, study-type rubric, canonical checklist,
// scoring arithmetic, the record schema and the document text. Question
// strings, thresholds and bands are rendered from the same tables the
// validator and scoring engine use.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/appraisal-engine/internal/schema"
	"github.com/pdiddy/appraisal-engine/internal/scoring"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// Document markers around the analysed text.
const (
	BeginMarker = "--- BEGIN ARTICLE TEXT ---"
	EndMarker   = "--- END ARTICLE TEXT ---"
)

var appraisalPromptTmpl = template.Must(template.New("appraisal").Funcs(template.FuncMap{
	"join": joinAny,
}).Parse(`You are a SENIOR SCIENTIFIC RESEARCHER with expertise in systematic critical appraisal.
You MUST produce a single JSON object that strictly conforms to the JSON Schema below.

STEP 0: CLASSIFY THE STUDY TYPE
Choose exactly one study_type and set frameworks_applied to its list:
{{- range .StudyTypes}}
  {{.Type}}: {{.Description}}
    frameworks_applied = [{{join .Frameworks}}]
{{- end}}

CASP CHECKLIST ({{.ChecklistItems}} items). Use these EXACT question strings:
{{- range .Checklist}}
  Q{{.Number}} "{{.Question}}"
{{- end}}

Score each item from 0.0 to 1.0:
  1.0 = fully met with clear evidence
  0.5 = partially met or unclear
  0.0 = not met or serious concerns
Q{{.ChecklistItems}} may instead be scored "{{.NotApplicable}}" when benefits and harms cannot be weighed.

Answers:
  Q1-Q{{.ChecklistItems}}: {{join .GeneralAnswers}}
  Q7 may also use: {{join .EffectSizeExtras}}
  Q8 may also use: {{join .PrecisionExtras}}
  VARIES or PARTIAL indicate heterogeneity across included studies.

GRADE CERTAINTY OF EVIDENCE (additional_quality_assessment.certainty_of_evidence)
Rate each domain {{join .Concerns}}: risk_of_bias, inconsistency, indirectness, imprecision, publication_bias.
Start at HIGH. Each SERIOUS domain removes one level, each VERY_SERIOUS domain removes two.
CRITICAL RULE: when the smallest human sample is below {{.SmallSampleLimit}}, remove {{.SmallSampleDowngrades}} more levels.
Record smallest_human_sample_size (null when no human data).
Levels after 0, 1, 2 and 3+ downgrades: {{join .CertaintyLevels}}.

SCORING CALCULATION (DETERMINISTIC)
STEP 1: total_score = sum of Q1-Q{{.ChecklistItems}} scores ("{{.NotApplicable}}" counts as 0).
        total_applicable_questions = {{.ChecklistItems}}, or {{.ChecklistItemsMinusOne}} when Q{{.ChecklistItems}} is "{{.NotApplicable}}".
STEP 2: preliminary_percentage = total_score / total_applicable_questions x 100.
STEP 3: choose certainty_penalty within the band of the certainty level:
{{- range .Bands}}
          {{.Level}}: {{.Range}}
{{- end}}
STEP 4: percentage_score = preliminary_percentage - certainty_penalty, clamped to [0, 100].
STEP 5: quality_rating thresholds on percentage_score:
          LOW: < {{.Moderate}}
          MODERATE: {{.Moderate}}-{{.ModerateTop}}
          MODERATE_TO_HIGH: {{.ModerateToHigh}}-{{.ModerateToHighTop}}
          HIGH: >= {{.High}}

CROSS-FRAMEWORK CONFLICTS (MANDATORY CHECK)
  If preliminary_percentage >= {{.High}} but certainty is LOW or VERY_LOW:
    cap percentage_score at {{.Ceiling}} so quality_rating is MODERATE at best,
    and explain the conflict in cross_model_conflicts.
  If certainty is HIGH but Q2, Q4 or Q5 scored below {{.ValidityLimit}}:
    cap percentage_score at {{.Ceiling}} so quality_rating is MODERATE at best,
    and explain the conflict in cross_model_conflicts.
  Otherwise set cross_model_conflicts to null.

FIELD GUIDANCE
  what_was_not_considered: {{.MinNotConsidered}}-{{.MaxNotConsidered}} items, never empty (long-term outcomes, vulnerable subgroups,
    implementation barriers, patient-reported outcomes, quality of life, adverse events, generalizability).
  scientific_justification: which frameworks were applied and why, how each influenced the rating,
    how conflicts were resolved, and why the final percentage_score and quality_rating are appropriate.
  bradford_hill_criteria_met: integer 0-{{.MaxBradfordHill}}.
  evaluation_date: {{.Date}}
  limitations_found: optional on every object; use [] only if genuinely no limitations.
  For animal-specific fields in human-only studies use "NOT_APPLICABLE".
  Return ONLY the JSON object: no markdown fences, no commentary.

Your response MUST conform EXACTLY to this JSON Schema:
{{.Schema}}

{{.Begin}}
{{.Text}}
{{.End}}
`))

type studyTypeRow struct {
	Type        types.StudyType
	Description string
	Frameworks  []types.Framework
}

type bandRow struct {
	Level types.CertaintyLevel
	Range string
}

var studyTypeDescriptions = map[types.StudyType]string{
	types.StudyOriginalArticle:  "primary research (RCT, cohort, case-control, cross-sectional)",
	types.StudySystematicReview: "systematic search, quality appraisal and synthesis",
	types.StudyNarrativeReview:  "literature overview without systematic methodology",
	types.StudyMetaAnalysis:     "quantitative synthesis of multiple studies",
}

// Compose renders the full prompt for text, stamping date as the
// evaluation date.
func Compose(text string, date time.Time) (string, error) {
	data := map[string]any{
		"StudyTypes":             studyTypeRows(),
		"Checklist":              types.Checklist,
		"ChecklistItems":         types.ChecklistItems,
		"ChecklistItemsMinusOne": types.ChecklistItems - 1,
		"NotApplicable":          types.NotApplicableScore,
		"GeneralAnswers":         types.GeneralAnswers,
		"EffectSizeExtras":       extras(types.EffectSizeAnswers),
		"PrecisionExtras":        extras(types.PrecisionAnswers),
		"Concerns":               types.Concerns,
		"SmallSampleLimit":       scoring.SmallSampleLimit,
		"SmallSampleDowngrades":  scoring.SmallSampleDowngrades,
		"CertaintyLevels":        types.CertaintyLevels,
		"Bands":                  bandRows(),
		"Moderate":               scoring.ModerateThreshold,
		"ModerateTop":            scoring.ModerateToHighThreshold - 1,
		"ModerateToHigh":         scoring.ModerateToHighThreshold,
		"ModerateToHighTop":      scoring.HighThreshold - 1,
		"High":                   scoring.HighThreshold,
		"Ceiling":                scoring.ConflictCeiling,
		"ValidityLimit":          scoring.ValidityConcernLimit,
		"MinNotConsidered":       types.MinNotConsidered,
		"MaxNotConsidered":       types.MaxNotConsidered,
		"MaxBradfordHill":        types.MaxBradfordHill,
		"Date":                   date.Format("2006-01-02"),
		"Schema":                 string(schema.JSON()),
		"Begin":                  BeginMarker,
		"End":                    EndMarker,
		"Text":                   text,
	}

	var buf bytes.Buffer
	if err := appraisalPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

func studyTypeRows() []studyTypeRow {
	rows := make([]studyTypeRow, 0, len(types.StudyTypes))
	for _, st := range types.StudyTypes {
		rows = append(rows, studyTypeRow{Type: st, Description: studyTypeDescriptions[st], Frameworks: types.Frameworks[st]})
	}
	return rows
}

func bandRows() []bandRow {
	rows := make([]bandRow, 0, len(types.CertaintyLevels))
	for _, lvl := range types.CertaintyLevels {
		b := scoring.PenaltyBands[lvl]
		r := "no reduction"
		if b.Hi > 0 {
			r = fmt.Sprintf("reduce by %g-%g points", b.Lo, b.Hi)
		}
		rows = append(rows, bandRow{Level: lvl, Range: r})
	}
	return rows
}

// extras returns the answers beyond the general set.
func extras(answers []types.Answer) []types.Answer {
	general := make(map[types.Answer]bool, len(types.GeneralAnswers))
	for _, a := range types.GeneralAnswers {
		general[a] = true
	}
	var out []types.Answer
	for _, a := range answers {
		if !general[a] {
			out = append(out, a)
		}
	}
	return out
}

func joinAny(v any) string {
	var parts []string
	switch t := v.(type) {
	case []types.Answer:
		for _, a := range t {
			parts = append(parts, `"`+string(a)+`"`)
		}
	case []types.Framework:
		for _, f := range t {
			parts = append(parts, `"`+string(f)+`"`)
		}
	case []types.Concern:
		for _, c := range t {
			parts = append(parts, string(c))
		}
	case []types.CertaintyLevel:
		for _, c := range t {
			parts = append(parts, string(c))
		}
	default:
		return fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
