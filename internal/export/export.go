// Package export writes stored results to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/examiner/internal/store"
)

const (
	SheetResults  = "Results"
	SheetOutcomes = "Outcomes"

	timeLayout = "2006-01-02 15:04:05"
)

var (
	resultHeader = []any{
		"Attempt", "Exam", "Title", "Participant", "Status", "Started",
		"Completed", "Seconds", "Correct", "Total", "Percentage", "Passed",
	}
	outcomeHeader = []any{"Attempt", "Exam", "Question", "Selected", "Correct", "Result"}
)

// WriteResults saves results to a new workbook at path.
func WriteResults(path string, results []store.ExamResult) error {
	f, err := build(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Encode writes the workbook for results to w.
func Encode(w io.Writer, results []store.ExamResult) error {
	f, err := build(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(results []store.ExamResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetOutcomes); err != nil {
		f.Close()
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	if err := writeResults(f, results); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeOutcomes(f, results); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeResults(f *excelize.File, results []store.ExamResult) error {
	if err := header(f, SheetResults, resultHeader); err != nil {
		return err
	}
	for i, r := range results {
		row := []any{
			r.AttemptID, r.ExamID, r.ExamTitle, r.Participant, r.Status,
			r.StartedAt.Format(timeLayout), r.CompletedAt.Format(timeLayout),
			int(r.Elapsed().Seconds()), r.CorrectCount, r.Total, r.Percentage,
			passLabel(r.Passed),
		}
		if err := setRow(f, SheetResults, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetResults, "A", "D", 22)
}

func writeOutcomes(f *excelize.File, results []store.ExamResult) error {
	if err := header(f, SheetOutcomes, outcomeHeader); err != nil {
		return err
	}
	line := 2
	for _, r := range results {
		for _, o := range r.Outcomes {
			selected := any("")
			if o.Answered() {
				selected = o.Selected
			}
			result := "wrong"
			switch {
			case o.IsCorrect:
				result = "correct"
			case !o.Answered():
				result = "unanswered"
			}
			row := []any{r.AttemptID, r.ExamID, o.QuestionID, selected, o.Correct, result}
			if err := setRow(f, SheetOutcomes, line, row); err != nil {
				return err
			}
			line++
		}
	}
	return f.SetColWidth(SheetOutcomes, "A", "C", 22)
}

func header(f *excelize.File, sheet string, cols []any) error {
	if err := setRow(f, sheet, 1, cols); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func passLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
