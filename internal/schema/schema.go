// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema builds the JSON Schema of the appraisal record. The same
// document is embedded in the generation prompt and compiled by the
// response validator, so the two can never drift apart.
package schema

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// Draft is the JSON Schema dialect of Document.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// ScorePattern matches the string forms accepted for the last item's
// score: the not-applicable marker or a decimal within [0,1].
const ScorePattern = `^\s*(N/A|0(\.[0-9]+)?|1(\.0+)?)\s*$`

// Document returns the appraisal record schema as a generic JSON tree.
// Every object is closed (additionalProperties false); every object also
// accepts an optional, nullable limitations_found list.
func Document() map[string]any {
	return map[string]any{
		"$schema": Draft,
		"title":   "Appraisal",
		"type":    "object",
		"properties": map[string]any{
			"article_metadata":              articleMetadata(),
			"casp_evaluation":               caspEvaluation(types.Checklist),
			"additional_quality_assessment": additionalQuality(),
			"overall_assessment":            overallAssessment(),
		},
		"required":             []string{"article_metadata", "casp_evaluation", "additional_quality_assessment", "overall_assessment"},
		"additionalProperties": false,
	}
}

var (
	jsonOnce sync.Once
	jsonDoc  []byte
)

// JSON returns Document marshaled with two-space indentation. The result is
// computed once and shared; callers must not modify it.
func JSON() []byte {
	jsonOnce.Do(func() {
		b, err := json.MarshalIndent(Document(), "", "  ")
		if err != nil {
			panic("schema: marshal: " + err.Error())
		}
		jsonDoc = b
	})
	return jsonDoc
}

func articleMetadata() map[string]any {
	return object(props{
		"title":              text(),
		"authors":            list(text()),
		"journal":            text(),
		"publication_year":   map[string]any{"type": "integer", "minimum": 1600, "maximum": 2100},
		"doi":                text(),
		"study_type":         enum(types.StudyTypes),
		"frameworks_applied": map[string]any{"type": "array", "items": enum(types.AllFrameworks), "minItems": 1, "uniqueItems": true},
	}, nil)
}

func caspEvaluation(items [types.ChecklistItems]types.ChecklistItem) map[string]any {
	return object(props{
		"checklist_used":  enum(types.ChecklistTypes),
		"evaluation_date": map[string]any{"type": "string", "format": "date"},
		"section_a_validity": object(props{
			items[0].Key: item(items[0], unitScore(), object(props{
				"population":   text(),
				"intervention": text(),
				"comparator":   text(),
				"outcomes":     text(),
			}, nil), nil, props{"notes": nullableText()}),
			items[1].Key: item(items[1], unitScore(), object(props{
				"mice_studies":        text(),
				"human_intervention":  text(),
				"human_observational": text(),
			}, nil), props{"concerns": list(text())}, nil),
			items[2].Key: item(items[2], unitScore(), object(props{
				"mice":   text(),
				"humans": text(),
			}, nil), nil, props{"notes": nullableText()}),
			"preliminary_assessment": object(props{
				"worth_continuing": boolean(),
				"rationale":        text(),
			}, nil),
		}, nil),
		"section_b_results": object(props{
			items[3].Key: item(items[3], unitScore(), object(props{
				"patients_blinded":   boolean(),
				"personnel_blinded":  boolean(),
				"explicit_statement": text(),
			}, nil), props{"bias_risk": enum(types.RiskLevels), "concerns": list(text())}, nil),
			items[4].Key: item(items[4], unitScore(), object(props{
				"baseline_characteristics": text(),
				"human_baseline":           text(),
				"baseline_measurements":    text(),
			}, nil), nil, props{"notes": nullableText()}),
			items[5].Key: item(items[5], unitScore(), object(props{
				"same_diet_batch": text(),
				"same_housing":    text(),
				"same_testing":    text(),
			}, nil), nil, nil),
			items[6].Key: item(items[6], unitScore(), object(props{
				"primary_outcome_mice": object(props{
					"metric":                   text(),
					"statistical_significance": text(),
					"effect_description":       text(),
				}, nil),
				"primary_outcome_humans": object(props{
					"observational": text(),
					"intervention":  text(),
				}, nil),
				"mechanistic_outcomes": object(props{
					"microbiota_transfer": text(),
					"antibiotic_reversal": text(),
				}, nil),
			}, nil), nil, nil),
			items[7].Key: item(items[7], unitScore(), object(props{
				"confidence_intervals": text(),
				"p_values":             text(),
				"sample_sizes": object(props{
					"mice_groups":         text(),
					"human_observational": text(),
					"human_intervention":  text(),
				}, nil),
				"error_reporting": text(),
			}, nil), props{"concerns": list(text())}, nil),
		}, nil),
		"section_c_applicability": object(props{
			items[8].Key: item(items[8], unitScore(), object(props{
				"generalizability_limitations": list(text()),
				"strengths":                    list(text()),
			}, nil), nil, nil),
			items[9].Key: item(items[9], unitScore(), object(props{
				"outcomes_measured": list(text()),
				"outcomes_missing":  list(text()),
			}, nil), nil, nil),
			items[10].Key: item(items[10], lastItemScore(), object(props{
				"type":                  text(),
				"findings_suggest":      text(),
				"clinical_implications": text(),
			}, nil), nil, nil),
		}, nil),
	}, nil)
}

func additionalQuality() map[string]any {
	bias := func() map[string]any {
		return object(props{"risk": enum(types.RiskLevels), "notes": text()}, nil)
	}
	return object(props{
		"internal_validity": object(props{
			"selection_bias":   bias(),
			"performance_bias": bias(),
			"detection_bias":   bias(),
			"attrition_bias":   bias(),
			"reporting_bias":   bias(),
		}, nil),
		"external_validity": object(props{
			"animal_to_human_translation":   text(),
			"population_representativeness": text(),
			"intervention_feasibility":      text(),
		}, nil),
		"statistical_rigor": object(props{
			"appropriate_tests":           boolean(),
			"multiple_testing_correction": text(),
			"sample_size_justification":   text(),
			"power_calculation":           text(),
		}, nil),
		"mechanistic_strength": object(props{
			"causality_evidence":         list(text()),
			"bradford_hill_criteria_met": map[string]any{"type": "integer", "minimum": 0, "maximum": types.MaxBradfordHill},
		}, nil),
		"certainty_of_evidence": object(props{
			"level":                      enum(types.CertaintyLevels),
			"risk_of_bias":               enum(types.Concerns),
			"inconsistency":              enum(types.Concerns),
			"indirectness":               enum(types.Concerns),
			"imprecision":                enum(types.Concerns),
			"publication_bias":           enum(types.Concerns),
			"smallest_human_sample_size": map[string]any{"type": []string{"integer", "null"}, "minimum": 1},
			"rationale":                  nonEmptyText(),
		}, nil),
	}, nil)
}

func overallAssessment() map[string]any {
	return object(props{
		"total_applicable_questions": map[string]any{"type": "integer", "enum": []int{10, 11}},
		"total_score":                map[string]any{"type": "number", "minimum": 0, "maximum": types.ChecklistItems},
		"certainty_penalty":          map[string]any{"type": "number", "minimum": 0, "maximum": 25},
		"percentage_score":           map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"quality_rating":             enum(types.QualityRatings),
		"key_strengths":              list(text()),
		"key_limitations":            list(text()),
		"reliability_conclusion":     text(),
		"recommendations":            list(text()),
		"what_was_not_considered": map[string]any{
			"type":     "array",
			"items":    nonEmptyText(),
			"minItems": types.MinNotConsidered,
			"maxItems": types.MaxNotConsidered,
		},
		"scientific_justification": nonEmptyText(),
		"cross_model_conflicts":    nullableText(),
	}, nil)
}

// props is a property set keyed by field name.
type props map[string]any

// object returns a closed object schema. Every key of required is
// mandatory; keys of optional may be absent.
func object(required, optional props) map[string]any {
	properties := make(map[string]any, len(required)+len(optional)+1)
	names := make([]string, 0, len(required))
	for k, v := range required {
		properties[k] = v
		names = append(names, k)
	}
	for k, v := range optional {
		properties[k] = v
	}
	properties["limitations_found"] = map[string]any{"type": []string{"array", "null"}, "items": text()}
	sort.Strings(names)
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             names,
		"additionalProperties": false,
	}
}

// item returns the schema of one checklist item: the canonical question as
// a constant, its answer set, score, details and item-specific fields.
func item(def types.ChecklistItem, score, details map[string]any, extra, optional props) map[string]any {
	required := props{
		"question": map[string]any{"type": "string", "const": def.Question},
		"answer":   enum(def.Answers),
		"details":  details,
		"score":    score,
	}
	for k, v := range extra {
		required[k] = v
	}
	return object(required, optional)
}

func unitScore() map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 1}
}

func lastItemScore() map[string]any {
	return map[string]any{
		"oneOf": []any{
			unitScore(),
			map[string]any{"type": "string", "pattern": ScorePattern},
		},
	}
}

func text() map[string]any { return map[string]any{"type": "string"} }
func nonEmptyText() map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "pattern": `\S`}
}
func nullableText() map[string]any { return map[string]any{"type": []string{"string", "null"}} }
func boolean() map[string]any      { return map[string]any{"type": "boolean"} }

func list(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func enum[T ~string](values []T) map[string]any {
	out := make([]string, 0, len(values))
	seen := make(map[T]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, string(v))
	}
	return map[string]any{"type": "string", "enum": out}
}
