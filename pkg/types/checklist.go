// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ChecklistItems is the number of CASP items in every appraisal.
const ChecklistItems = 11

// NotApplicableScore is the literal accepted in place of a numeric score on
// the last checklist item.
const NotApplicableScore = "N/A"

// ChecklistItem describes one fixed checklist position: where it lives in
// the record, its canonical question and the answers it accepts.
type ChecklistItem struct {
	Number   int
	Section  string
	Key      string
	Question string
	Answers  []Answer
}

// Path returns the dotted record path of the item object.
func (c ChecklistItem) Path() string {
	return "casp_evaluation." + c.Section + "." + c.Key
}

// Section keys.
const (
	SectionValidity      = "section_a_validity"
	SectionResults       = "section_b_results"
	SectionApplicability = "section_c_applicability"
)

// Checklist is the canonical CASP randomised controlled trial checklist.
// Question strings are compared literally during validation.
var Checklist = [ChecklistItems]ChecklistItem{
	{1, SectionValidity, "question_1_focused_issue", "Did the trial address a clearly focused issue?", GeneralAnswers},
	{2, SectionValidity, "question_2_randomization", "Was the assignment of patients to treatments randomised?", GeneralAnswers},
	{3, SectionValidity, "question_3_all_patients_accounted", "Were all patients who entered the trial properly accounted for at its conclusion?", GeneralAnswers},
	{4, SectionResults, "question_4_blinding", "Were patients, health workers and study personnel blind to treatment?", GeneralAnswers},
	{5, SectionResults, "question_5_groups_similar", "Were the groups similar at the start of the trial?", GeneralAnswers},
	{6, SectionResults, "question_6_treated_equally", "Aside from the experimental intervention, were the groups treated equally?", GeneralAnswers},
	{7, SectionResults, "question_7_effect_size", "How large was the treatment effect?", EffectSizeAnswers},
	{8, SectionResults, "question_8_precision", "How precise was the estimate of the treatment effect?", PrecisionAnswers},
	{9, SectionApplicability, "question_9_results_applicable", "Can the results be applied in your context?", GeneralAnswers},
	{10, SectionApplicability, "question_10_outcomes_considered", "Were all clinically important outcomes considered?", GeneralAnswers},
	{11, SectionApplicability, "question_11_benefits_worth_harms", "Are the benefits worth the harms and costs?", GeneralAnswers},
}

// Validity items whose low scores conflict with HIGH certainty:
// randomisation, blinding and baseline similarity.
var ValidityConcernItems = []int{2, 4, 5}

// Framework names a critical-appraisal or reporting framework.
type Framework string

const (
	FrameworkCASP          Framework = "CASP"
	FrameworkGRADE         Framework = "GRADE"
	FrameworkPICO          Framework = "PICO"
	FrameworkAMSTAR2       Framework = "AMSTAR_2"
	FrameworkPRISMA        Framework = "PRISMA"
	FrameworkSANRA         Framework = "SANRA"
	FrameworkPICOScope     Framework = "PICO_SCOPE"
	FrameworkHeterogeneity Framework = "HETEROGENEITY"
)

// Frameworks maps each study type to its fixed framework list.
var Frameworks = map[StudyType][]Framework{
	StudyOriginalArticle:  {FrameworkCASP, FrameworkGRADE, FrameworkPICO},
	StudySystematicReview: {FrameworkAMSTAR2, FrameworkPRISMA, FrameworkGRADE, FrameworkCASP},
	StudyNarrativeReview:  {FrameworkSANRA, FrameworkPICOScope},
	StudyMetaAnalysis:     {FrameworkPRISMA, FrameworkAMSTAR2, FrameworkGRADE, FrameworkHeterogeneity},
}

// AllFrameworks lists every framework name once.
var AllFrameworks = []Framework{
	FrameworkCASP, FrameworkGRADE, FrameworkPICO, FrameworkAMSTAR2,
	FrameworkPRISMA, FrameworkSANRA, FrameworkPICOScope, FrameworkHeterogeneity,
}

// Bounds on list and count fields of the record.
const (
	MinNotConsidered = 3
	MaxNotConsidered = 7
	MaxBradfordHill  = 9
)
