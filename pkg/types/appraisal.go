// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Appraisal is the structured critical-appraisal record produced for one
// document. Its JSON form is the export contract: field names and nesting
// are stable.
type Appraisal struct {
	ArticleMetadata             ArticleMetadata             `json:"article_metadata" yaml:"article_metadata"`
	CASPEvaluation              CASPEvaluation              `json:"casp_evaluation" yaml:"casp_evaluation"`
	AdditionalQualityAssessment AdditionalQualityAssessment `json:"additional_quality_assessment" yaml:"additional_quality_assessment"`
	OverallAssessment           OverallAssessment           `json:"overall_assessment" yaml:"overall_assessment"`
}

// ArticleMetadata identifies the appraised article and its classification.
type ArticleMetadata struct {
	Title             string      `json:"title" yaml:"title"`
	Authors           []string    `json:"authors" yaml:"authors"`
	Journal           string      `json:"journal" yaml:"journal"`
	PublicationYear   int         `json:"publication_year" yaml:"publication_year"`
	DOI               string      `json:"doi" yaml:"doi"`
	StudyType         StudyType   `json:"study_type" yaml:"study_type"`
	FrameworksApplied []Framework `json:"frameworks_applied" yaml:"frameworks_applied"`
	LimitationsFound  []string    `json:"limitations_found" yaml:"limitations_found"`
}

// CASPEvaluation holds the eleven checklist items in three sections.
type CASPEvaluation struct {
	ChecklistUsed         ChecklistType         `json:"checklist_used" yaml:"checklist_used"`
	EvaluationDate        string                `json:"evaluation_date" yaml:"evaluation_date"`
	SectionAValidity      SectionAValidity      `json:"section_a_validity" yaml:"section_a_validity"`
	SectionBResults       SectionBResults       `json:"section_b_results" yaml:"section_b_results"`
	SectionCApplicability SectionCApplicability `json:"section_c_applicability" yaml:"section_c_applicability"`
	LimitationsFound      []string              `json:"limitations_found" yaml:"limitations_found"`
}

// --- Section A: validity ---

type SectionAValidity struct {
	Q1FocusedIssue         FocusedIssueQuestion      `json:"question_1_focused_issue" yaml:"question_1_focused_issue"`
	Q2Randomization        RandomizationQuestion     `json:"question_2_randomization" yaml:"question_2_randomization"`
	Q3AllPatientsAccounted PatientAccountingQuestion `json:"question_3_all_patients_accounted" yaml:"question_3_all_patients_accounted"`
	PreliminaryAssessment  PreliminaryAssessment     `json:"preliminary_assessment" yaml:"preliminary_assessment"`
	LimitationsFound       []string                  `json:"limitations_found" yaml:"limitations_found"`
}

// PICODetails states the clinical question as population, intervention,
// comparator and outcomes.
type PICODetails struct {
	Population       string   `json:"population" yaml:"population"`
	Intervention     string   `json:"intervention" yaml:"intervention"`
	Comparator       string   `json:"comparator" yaml:"comparator"`
	Outcomes         string   `json:"outcomes" yaml:"outcomes"`
	LimitationsFound []string `json:"limitations_found" yaml:"limitations_found"`
}

type FocusedIssueQuestion struct {
	Question         string      `json:"question" yaml:"question"`
	Answer           Answer      `json:"answer" yaml:"answer"`
	Details          PICODetails `json:"details" yaml:"details"`
	Score            float64     `json:"score" yaml:"score"`
	Notes            *string     `json:"notes" yaml:"notes"`
	LimitationsFound []string    `json:"limitations_found" yaml:"limitations_found"`
}

type RandomizationDetails struct {
	MiceStudies        string   `json:"mice_studies" yaml:"mice_studies"`
	HumanIntervention  string   `json:"human_intervention" yaml:"human_intervention"`
	HumanObservational string   `json:"human_observational" yaml:"human_observational"`
	LimitationsFound   []string `json:"limitations_found" yaml:"limitations_found"`
}

type RandomizationQuestion struct {
	Question         string               `json:"question" yaml:"question"`
	Answer           Answer               `json:"answer" yaml:"answer"`
	Details          RandomizationDetails `json:"details" yaml:"details"`
	Score            float64              `json:"score" yaml:"score"`
	Concerns         []string             `json:"concerns" yaml:"concerns"`
	LimitationsFound []string             `json:"limitations_found" yaml:"limitations_found"`
}

type PatientAccountingDetails struct {
	Mice             string   `json:"mice" yaml:"mice"`
	Humans           string   `json:"humans" yaml:"humans"`
	LimitationsFound []string `json:"limitations_found" yaml:"limitations_found"`
}

type PatientAccountingQuestion struct {
	Question         string                   `json:"question" yaml:"question"`
	Answer           Answer                   `json:"answer" yaml:"answer"`
	Details          PatientAccountingDetails `json:"details" yaml:"details"`
	Score            float64                  `json:"score" yaml:"score"`
	Notes            *string                  `json:"notes" yaml:"notes"`
	LimitationsFound []string                 `json:"limitations_found" yaml:"limitations_found"`
}

// PreliminaryAssessment records whether the validity screen justified
// continuing with the remaining items.
type PreliminaryAssessment struct {
	WorthContinuing  bool     `json:"worth_continuing" yaml:"worth_continuing"`
	Rationale        string   `json:"rationale" yaml:"rationale"`
	LimitationsFound []string `json:"limitations_found" yaml:"limitations_found"`
}

// --- Section B: results ---

type SectionBResults struct {
	Q4Blinding       BlindingQuestion        `json:"question_4_blinding" yaml:"question_4_blinding"`
	Q5GroupsSimilar  GroupSimilarityQuestion `json:"question_5_groups_similar" yaml:"question_5_groups_similar"`
	Q6TreatedEqually EqualTreatmentQuestion  `json:"question_6_treated_equally" yaml:"question_6_treated_equally"`
	Q7EffectSize     EffectSizeQuestion      `json:"question_7_effect_size" yaml:"question_7_effect_size"`
	Q8Precision      PrecisionQuestion       `json:"question_8_precision" yaml:"question_8_precision"`
	LimitationsFound []string                `json:"limitations_found" yaml:"limitations_found"`
}

type BlindingDetails struct {
	PatientsBlinded   bool     `json:"patients_blinded" yaml:"patients_blinded"`
	PersonnelBlinded  bool     `json:"personnel_blinded" yaml:"personnel_blinded"`
	ExplicitStatement string   `json:"explicit_statement" yaml:"explicit_statement"`
	LimitationsFound  []string `json:"limitations_found" yaml:"limitations_found"`
}

type BlindingQuestion struct {
	Question         string          `json:"question" yaml:"question"`
	Answer           Answer          `json:"answer" yaml:"answer"`
	Details          BlindingDetails `json:"details" yaml:"details"`
	Score            float64         `json:"score" yaml:"score"`
	BiasRisk         RiskLevel       `json:"bias_risk" yaml:"bias_risk"`
	Concerns         []string        `json:"concerns" yaml:"concerns"`
	LimitationsFound []string        `json:"limitations_found" yaml:"limitations_found"`
}

type GroupSimilarityDetails struct {
	BaselineCharacteristics string   `json:"baseline_characteristics" yaml:"baseline_characteristics"`
	HumanBaseline           string   `json:"human_baseline" yaml:"human_baseline"`
	BaselineMeasurements    string   `json:"baseline_measurements" yaml:"baseline_measurements"`
	LimitationsFound        []string `json:"limitations_found" yaml:"limitations_found"`
}

type GroupSimilarityQuestion struct {
	Question         string                 `json:"question" yaml:"question"`
	Answer           Answer                 `json:"answer" yaml:"answer"`
	Details          GroupSimilarityDetails `json:"details" yaml:"details"`
	Score            float64                `json:"score" yaml:"score"`
	Notes            *string                `json:"notes" yaml:"notes"`
	LimitationsFound []string               `json:"limitations_found" yaml:"limitations_found"`
}

type EqualTreatmentDetails struct {
	SameDietBatch    string   `json:"same_diet_batch" yaml:"same_diet_batch"`
	SameHousing      string   `json:"same_housing" yaml:"same_housing"`
	SameTesting      string   `json:"same_testing" yaml:"same_testing"`
	LimitationsFound []string `json:"limitations_found" yaml:"limitations_found"`
}

type EqualTreatmentQuestion struct {
	Question         string                `json:"question" yaml:"question"`
	Answer           Answer                `json:"answer" yaml:"answer"`
	Details          EqualTreatmentDetails `json:"details" yaml:"details"`
	Score            float64               `json:"score" yaml:"score"`
	LimitationsFound []string              `json:"limitations_found" yaml:"limitations_found"`
}

type OutcomeMeasurement struct {
	Metric                  string   `json:"metric" yaml:"metric"`
	StatisticalSignificance string   `json:"statistical_significance" yaml:"statistical_significance"`
	EffectDescription       string   `json:"effect_description" yaml:"effect_description"`
	LimitationsFound        []string `json:"limitations_found" yaml:"limitations_found"`
}

type HumanOutcomeMeasurement struct {
	Observational    string   `json:"observational" yaml:"observational"`
	Intervention     string   `json:"intervention" yaml:"intervention"`
	LimitationsFound []string `json:"limitations_found" yaml:"limitations_found"`
}

type MechanisticOutcomes struct {
	MicrobiotaTransfer string   `json:"microbiota_transfer" yaml:"microbiota_transfer"`
	AntibioticReversal string   `json:"antibiotic_reversal" yaml:"antibiotic_reversal"`
	LimitationsFound   []string `json:"limitations_found" yaml:"limitations_found"`
}

type EffectSizeDetails struct {
	PrimaryOutcomeMice   OutcomeMeasurement      `json:"primary_outcome_mice" yaml:"primary_outcome_mice"`
	PrimaryOutcomeHumans HumanOutcomeMeasurement `json:"primary_outcome_humans" yaml:"primary_outcome_humans"`
	MechanisticOutcomes  MechanisticOutcomes     `json:"mechanistic_outcomes" yaml:"mechanistic_outcomes"`
	LimitationsFound     []string                `json:"limitations_found" yaml:"limitations_found"`
}

type EffectSizeQuestion struct {
	Question         string            `json:"question" yaml:"question"`
	Answer           Answer            `json:"answer" yaml:"answer"`
	Details          EffectSizeDetails `json:"details" yaml:"details"`
	Score            float64           `json:"score" yaml:"score"`
	LimitationsFound []string          `json:"limitations_found" yaml:"limitations_found"`
}

type SampleSizes struct {
	MiceGroups         string   `json:"mice_groups" yaml:"mice_groups"`
	HumanObservational string   `json:"human_observational" yaml:"human_observational"`
	HumanIntervention  string   `json:"human_intervention" yaml:"human_intervention"`
	LimitationsFound   []string `json:"limitations_found" yaml:"limitations_found"`
}

type PrecisionDetails struct {
	ConfidenceIntervals string      `json:"confidence_intervals" yaml:"confidence_intervals"`
	PValues             string      `json:"p_values" yaml:"p_values"`
	SampleSizes         SampleSizes `json:"sample_sizes" yaml:"sample_sizes"`
	ErrorReporting      string      `json:"error_reporting" yaml:"error_reporting"`
	LimitationsFound    []string    `json:"limitations_found" yaml:"limitations_found"`
}

type PrecisionQuestion struct {
	Question         string           `json:"question" yaml:"question"`
	Answer           Answer           `json:"answer" yaml:"answer"`
	Details          PrecisionDetails `json:"details" yaml:"details"`
	Score            float64          `json:"score" yaml:"score"`
	Concerns         []string         `json:"concerns" yaml:"concerns"`
	LimitationsFound []string         `json:"limitations_found" yaml:"limitations_found"`
}

// --- Section C: applicability ---

type SectionCApplicability struct {
	Q9ResultsApplicable   ApplicabilityQuestion      `json:"question_9_results_applicable" yaml:"question_9_results_applicable"`
	Q10OutcomesConsidered OutcomesConsideredQuestion `json:"question_10_outcomes_considered" yaml:"question_10_outcomes_considered"`
	Q11BenefitsWorthHarms BenefitsHarmsQuestion      `json:"question_11_benefits_worth_harms" yaml:"question_11_benefits_worth_harms"`
	LimitationsFound      []string                   `json:"limitations_found" yaml:"limitations_found"`
}

type ApplicabilityDetails struct {
	GeneralizabilityLimitations []string `json:"generalizability_limitations" yaml:"generalizability_limitations"`
	Strengths                   []string `json:"strengths" yaml:"strengths"`
	LimitationsFound            []string `json:"limitations_found" yaml:"limitations_found"`
}

type ApplicabilityQuestion struct {
	Question         string               `json:"question" yaml:"question"`
	Answer           Answer               `json:"answer" yaml:"answer"`
	Details          ApplicabilityDetails `json:"details" yaml:"details"`
	Score            float64              `json:"score" yaml:"score"`
	LimitationsFound []string             `json:"limitations_found" yaml:"limitations_found"`
}

type OutcomesConsideredDetails struct {
	OutcomesMeasured []string `json:"outcomes_measured" yaml:"outcomes_measured"`
	OutcomesMissing  []string `json:"outcomes_missing" yaml:"outcomes_missing"`
	LimitationsFound []string `json:"limitations_found" yaml:"limitations_found"`
}

type OutcomesConsideredQuestion struct {
	Question         string                    `json:"question" yaml:"question"`
	Answer           Answer                    `json:"answer" yaml:"answer"`
	Details          OutcomesConsideredDetails `json:"details" yaml:"details"`
	Score            float64                   `json:"score" yaml:"score"`
	LimitationsFound []string                  `json:"limitations_found" yaml:"limitations_found"`
}

type BenefitsHarmsDetails struct {
	Type                 string   `json:"type" yaml:"type"`
	FindingsSuggest      string   `json:"findings_suggest" yaml:"findings_suggest"`
	ClinicalImplications string   `json:"clinical_implications" yaml:"clinical_implications"`
	LimitationsFound     []string `json:"limitations_found" yaml:"limitations_found"`
}

// BenefitsHarmsQuestion is the last checklist item; its score may be "N/A".
type BenefitsHarmsQuestion struct {
	Question         string               `json:"question" yaml:"question"`
	Answer           Answer               `json:"answer" yaml:"answer"`
	Details          BenefitsHarmsDetails `json:"details" yaml:"details"`
	Score            Score                `json:"score" yaml:"score"`
	LimitationsFound []string             `json:"limitations_found" yaml:"limitations_found"`
}

// --- Additional quality assessment ---

type AdditionalQualityAssessment struct {
	InternalValidity    InternalValidity    `json:"internal_validity" yaml:"internal_validity"`
	ExternalValidity    ExternalValidity    `json:"external_validity" yaml:"external_validity"`
	StatisticalRigor    StatisticalRigor    `json:"statistical_rigor" yaml:"statistical_rigor"`
	MechanisticStrength MechanisticStrength `json:"mechanistic_strength" yaml:"mechanistic_strength"`
	CertaintyOfEvidence CertaintyOfEvidence `json:"certainty_of_evidence" yaml:"certainty_of_evidence"`
	LimitationsFound    []string            `json:"limitations_found" yaml:"limitations_found"`
}

type BiasAssessment struct {
	Risk             RiskLevel `json:"risk" yaml:"risk"`
	Notes            string    `json:"notes" yaml:"notes"`
	LimitationsFound []string  `json:"limitations_found" yaml:"limitations_found"`
}

type InternalValidity struct {
	SelectionBias    BiasAssessment `json:"selection_bias" yaml:"selection_bias"`
	PerformanceBias  BiasAssessment `json:"performance_bias" yaml:"performance_bias"`
	DetectionBias    BiasAssessment `json:"detection_bias" yaml:"detection_bias"`
	AttritionBias    BiasAssessment `json:"attrition_bias" yaml:"attrition_bias"`
	ReportingBias    BiasAssessment `json:"reporting_bias" yaml:"reporting_bias"`
	LimitationsFound []string       `json:"limitations_found" yaml:"limitations_found"`
}

type ExternalValidity struct {
	AnimalToHumanTranslation     string   `json:"animal_to_human_translation" yaml:"animal_to_human_translation"`
	PopulationRepresentativeness string   `json:"population_representativeness" yaml:"population_representativeness"`
	InterventionFeasibility      string   `json:"intervention_feasibility" yaml:"intervention_feasibility"`
	LimitationsFound             []string `json:"limitations_found" yaml:"limitations_found"`
}

type StatisticalRigor struct {
	AppropriateTests          bool     `json:"appropriate_tests" yaml:"appropriate_tests"`
	MultipleTestingCorrection string   `json:"multiple_testing_correction" yaml:"multiple_testing_correction"`
	SampleSizeJustification   string   `json:"sample_size_justification" yaml:"sample_size_justification"`
	PowerCalculation          string   `json:"power_calculation" yaml:"power_calculation"`
	LimitationsFound          []string `json:"limitations_found" yaml:"limitations_found"`
}

// MechanisticStrength counts the Bradford Hill criteria met (0-9).
type MechanisticStrength struct {
	CausalityEvidence       []string `json:"causality_evidence" yaml:"causality_evidence"`
	BradfordHillCriteriaMet int      `json:"bradford_hill_criteria_met" yaml:"bradford_hill_criteria_met"`
	LimitationsFound        []string `json:"limitations_found" yaml:"limitations_found"`
}

// CertaintyOfEvidence is the GRADE assessment: one rating per downgrade
// domain, the smallest human sample observed and the resulting level.
type CertaintyOfEvidence struct {
	Level                   CertaintyLevel `json:"level" yaml:"level"`
	RiskOfBias              Concern        `json:"risk_of_bias" yaml:"risk_of_bias"`
	Inconsistency           Concern        `json:"inconsistency" yaml:"inconsistency"`
	Indirectness            Concern        `json:"indirectness" yaml:"indirectness"`
	Imprecision             Concern        `json:"imprecision" yaml:"imprecision"`
	PublicationBias         Concern        `json:"publication_bias" yaml:"publication_bias"`
	SmallestHumanSampleSize *int           `json:"smallest_human_sample_size" yaml:"smallest_human_sample_size"`
	Rationale               string         `json:"rationale" yaml:"rationale"`
	LimitationsFound        []string       `json:"limitations_found" yaml:"limitations_found"`
}

// --- Overall assessment ---

type OverallAssessment struct {
	TotalApplicableQuestions int           `json:"total_applicable_questions" yaml:"total_applicable_questions"`
	TotalScore               float64       `json:"total_score" yaml:"total_score"`
	CertaintyPenalty         float64       `json:"certainty_penalty" yaml:"certainty_penalty"`
	PercentageScore          float64       `json:"percentage_score" yaml:"percentage_score"`
	QualityRating            QualityRating `json:"quality_rating" yaml:"quality_rating"`
	KeyStrengths             []string      `json:"key_strengths" yaml:"key_strengths"`
	KeyLimitations           []string      `json:"key_limitations" yaml:"key_limitations"`
	ReliabilityConclusion    string        `json:"reliability_conclusion" yaml:"reliability_conclusion"`
	Recommendations          []string      `json:"recommendations" yaml:"recommendations"`
	WhatWasNotConsidered     []string      `json:"what_was_not_considered" yaml:"what_was_not_considered"`
	ScientificJustification  string        `json:"scientific_justification" yaml:"scientific_justification"`
	CrossModelConflicts      *string       `json:"cross_model_conflicts" yaml:"cross_model_conflicts"`
	LimitationsFound         []string      `json:"limitations_found" yaml:"limitations_found"`
}

// ItemScores returns the eleven checklist scores in item order.
func (a *Appraisal) ItemScores() [ChecklistItems]Score {
	va := a.CASPEvaluation.SectionAValidity
	rb := a.CASPEvaluation.SectionBResults
	ca := a.CASPEvaluation.SectionCApplicability
	return [ChecklistItems]Score{
		NumericScore(va.Q1FocusedIssue.Score),
		NumericScore(va.Q2Randomization.Score),
		NumericScore(va.Q3AllPatientsAccounted.Score),
		NumericScore(rb.Q4Blinding.Score),
		NumericScore(rb.Q5GroupsSimilar.Score),
		NumericScore(rb.Q6TreatedEqually.Score),
		NumericScore(rb.Q7EffectSize.Score),
		NumericScore(rb.Q8Precision.Score),
		NumericScore(ca.Q9ResultsApplicable.Score),
		NumericScore(ca.Q10OutcomesConsidered.Score),
		ca.Q11BenefitsWorthHarms.Score,
	}
}

// Questions returns the eleven question strings in item order.
func (a *Appraisal) Questions() [ChecklistItems]string {
	va := a.CASPEvaluation.SectionAValidity
	rb := a.CASPEvaluation.SectionBResults
	ca := a.CASPEvaluation.SectionCApplicability
	return [ChecklistItems]string{
		va.Q1FocusedIssue.Question,
		va.Q2Randomization.Question,
		va.Q3AllPatientsAccounted.Question,
		rb.Q4Blinding.Question,
		rb.Q5GroupsSimilar.Question,
		rb.Q6TreatedEqually.Question,
		rb.Q7EffectSize.Question,
		rb.Q8Precision.Question,
		ca.Q9ResultsApplicable.Question,
		ca.Q10OutcomesConsidered.Question,
		ca.Q11BenefitsWorthHarms.Question,
	}
}

// Answers returns the eleven answers in item order.
func (a *Appraisal) Answers() [ChecklistItems]Answer {
	va := a.CASPEvaluation.SectionAValidity
	rb := a.CASPEvaluation.SectionBResults
	ca := a.CASPEvaluation.SectionCApplicability
	return [ChecklistItems]Answer{
		va.Q1FocusedIssue.Answer,
		va.Q2Randomization.Answer,
		va.Q3AllPatientsAccounted.Answer,
		rb.Q4Blinding.Answer,
		rb.Q5GroupsSimilar.Answer,
		rb.Q6TreatedEqually.Answer,
		rb.Q7EffectSize.Answer,
		rb.Q8Precision.Answer,
		ca.Q9ResultsApplicable.Answer,
		ca.Q10OutcomesConsidered.Answer,
		ca.Q11BenefitsWorthHarms.Answer,
	}
}
