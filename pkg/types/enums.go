// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Answer is a checklist answer. Items 7 and 8 accept extra values on top of
// the general set; see AnswersFor.
type Answer string

const (
	AnswerYes           Answer = "YES"
	AnswerNo            Answer = "NO"
	AnswerPartial       Answer = "PARTIAL"
	AnswerNotApplicable Answer = "NOT_APPLICABLE"
	AnswerUnclear       Answer = "UNCLEAR"

	// Effect-size answers (item 7).
	AnswerLarge    Answer = "LARGE"
	AnswerModerate Answer = "MODERATE"
	AnswerSmall    Answer = "SMALL"
	AnswerNone     Answer = "NONE"
	AnswerVaries   Answer = "VARIES"

	// Precision answers (item 8). MODERATE and VARIES are shared with item 7.
	AnswerHigh Answer = "HIGH"
	AnswerLow  Answer = "LOW"
)

// GeneralAnswers is the answer set every checklist item accepts.
var GeneralAnswers = []Answer{AnswerYes, AnswerNo, AnswerPartial, AnswerNotApplicable, AnswerUnclear}

// EffectSizeAnswers extends GeneralAnswers for item 7.
var EffectSizeAnswers = append(append([]Answer{}, GeneralAnswers...),
	AnswerLarge, AnswerModerate, AnswerSmall, AnswerNone, AnswerVaries)

// PrecisionAnswers extends GeneralAnswers for item 8.
var PrecisionAnswers = append(append([]Answer{}, GeneralAnswers...),
	AnswerHigh, AnswerModerate, AnswerLow, AnswerVaries)

// RiskLevel rates a bias domain.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskUnclear  RiskLevel = "UNCLEAR"
)

// RiskLevels lists every RiskLevel.
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskUnclear}

// QualityRating is the ordered four-level rating derived from the final
// percentage score.
type QualityRating string

const (
	RatingLow            QualityRating = "LOW"
	RatingModerate       QualityRating = "MODERATE"
	RatingModerateToHigh QualityRating = "MODERATE_TO_HIGH"
	RatingHigh           QualityRating = "HIGH"
)

// QualityRatings lists ratings from worst to best.
var QualityRatings = []QualityRating{RatingLow, RatingModerate, RatingModerateToHigh, RatingHigh}

// Rank returns the position of r in QualityRatings, or -1 if r is unknown.
func (r QualityRating) Rank() int {
	for i, v := range QualityRatings {
		if v == r {
			return i
		}
	}
	return -1
}

// CertaintyLevel is the GRADE certainty of evidence.
type CertaintyLevel string

const (
	CertaintyHigh     CertaintyLevel = "HIGH"
	CertaintyModerate CertaintyLevel = "MODERATE"
	CertaintyLow      CertaintyLevel = "LOW"
	CertaintyVeryLow  CertaintyLevel = "VERY_LOW"
)

// CertaintyLevels lists certainty levels from highest to lowest. The index
// of a level equals the number of downgrades that produce it.
var CertaintyLevels = []CertaintyLevel{CertaintyHigh, CertaintyModerate, CertaintyLow, CertaintyVeryLow}

// Concern rates one GRADE downgrade domain.
type Concern string

const (
	ConcernNotSerious  Concern = "NOT_SERIOUS"
	ConcernSerious     Concern = "SERIOUS"
	ConcernVerySerious Concern = "VERY_SERIOUS"
)

// Concerns lists every Concern.
var Concerns = []Concern{ConcernNotSerious, ConcernSerious, ConcernVerySerious}

// Downgrades returns how many certainty levels the concern removes.
func (c Concern) Downgrades() int {
	switch c {
	case ConcernSerious:
		return 1
	case ConcernVerySerious:
		return 2
	default:
		return 0
	}
}

// ChecklistType names the CASP checklist variant used.
type ChecklistType string

const (
	ChecklistRCT              ChecklistType = "CASP_RCT"
	ChecklistCohort           ChecklistType = "CASP_COHORT"
	ChecklistQualitative      ChecklistType = "CASP_QUALITATIVE"
	ChecklistSystematicReview ChecklistType = "CASP_SYSTEMATIC_REVIEW"
)

// ChecklistTypes lists every ChecklistType.
var ChecklistTypes = []ChecklistType{ChecklistRCT, ChecklistCohort, ChecklistQualitative, ChecklistSystematicReview}

// StudyType is the document classification that selects the frameworks.
type StudyType string

const (
	StudyOriginalArticle  StudyType = "ORIGINAL_ARTICLE"
	StudySystematicReview StudyType = "SYSTEMATIC_REVIEW"
	StudyNarrativeReview  StudyType = "NARRATIVE_REVIEW"
	StudyMetaAnalysis     StudyType = "META_ANALYSIS"
)

// StudyTypes lists every StudyType.
var StudyTypes = []StudyType{StudyOriginalArticle, StudySystematicReview, StudyNarrativeReview, StudyMetaAnalysis}
