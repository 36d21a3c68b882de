// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

const (
	overviewSheet  = "Overview"
	checklistSheet = "Checklist"
)

var checklistHeaders = []string{"No.", "Section", "Question", "Answer", "Score"}

// writeXLSX renders a two-sheet scorecard: an Overview of metadata and
// aggregates, and one Checklist row per item.
func writeXLSX(w io.Writer, rec *types.Appraisal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("naming overview sheet: %w", err)
	}
	if _, err := f.NewSheet(checklistSheet); err != nil {
		return fmt.Errorf("creating checklist sheet: %w", err)
	}

	for i, row := range overviewRows(rec) {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			_ = f.SetCellValue(overviewSheet, cell, v)
		}
	}
	_ = f.SetColWidth(overviewSheet, "A", "A", 28)
	_ = f.SetColWidth(overviewSheet, "B", "B", 80)

	for i, h := range checklistHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(checklistSheet, cell, h)
	}
	scores := rec.ItemScores()
	questions := rec.Questions()
	answers := rec.Answers()
	for i, item := range types.Checklist {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(checklistSheet, cell, v)
		}
		write(1, item.Number)
		write(2, item.Section)
		write(3, questions[i])
		write(4, string(answers[i]))
		if v, ok := scores[i].Value(); ok {
			write(5, v)
		} else {
			write(5, types.NotApplicableScore)
		}
	}
	_ = f.SetColWidth(checklistSheet, "B", "B", 24)
	_ = f.SetColWidth(checklistSheet, "C", "C", 70)

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func overviewRows(rec *types.Appraisal) [][]any {
	md := rec.ArticleMetadata
	coe := rec.AdditionalQualityAssessment.CertaintyOfEvidence
	oa := rec.OverallAssessment

	frameworks := make([]string, len(md.FrameworksApplied))
	for i, fw := range md.FrameworksApplied {
		frameworks[i] = string(fw)
	}
	conflicts := ""
	if oa.CrossModelConflicts != nil {
		conflicts = *oa.CrossModelConflicts
	}

	return [][]any{
		{"Field", "Value"},
		{"Title", md.Title},
		{"Authors", strings.Join(md.Authors, "; ")},
		{"Journal", md.Journal},
		{"Publication year", md.PublicationYear},
		{"DOI", md.DOI},
		{"Study type", string(md.StudyType)},
		{"Frameworks applied", strings.Join(frameworks, ", ")},
		{"Checklist used", string(rec.CASPEvaluation.ChecklistUsed)},
		{"Evaluation date", rec.CASPEvaluation.EvaluationDate},
		{"Certainty of evidence", string(coe.Level)},
		{"Certainty penalty", oa.CertaintyPenalty},
		{"Total score", oa.TotalScore},
		{"Applicable questions", oa.TotalApplicableQuestions},
		{"Percentage score", oa.PercentageScore},
		{"Quality rating", string(oa.QualityRating)},
		{"Reliability conclusion", oa.ReliabilityConclusion},
		{"Scientific justification", oa.ScientificJustification},
		{"Cross-model conflicts", conflicts},
	}
}
