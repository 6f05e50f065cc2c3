// Package scoring computes the result of an attempt from its definition and
// frozen answers. Score is a pure function: it reads no clock, no randomness
// and no external state, so identical inputs always give identical reports.
package scoring

import (
	"github.com/abhisek/examiner/internal/exam"
)

// PassThreshold is the minimum percentage required to pass.
const PassThreshold = 70

// Unanswered is the Selected value of an outcome with no recorded answer.
const Unanswered = -1

// Outcome is the per-question line of a report.
type Outcome struct {
	QuestionID string `json:"question_id"`
	Selected   int    `json:"selected"`
	Correct    int    `json:"correct"`
	IsCorrect  bool   `json:"is_correct"`
}

// Answered reports whether the participant chose an option.
func (o Outcome) Answered() bool {
	return o.Selected != Unanswered
}

// Report is the score of one attempt.
type Report struct {
	ExamID       string    `json:"exam_id"`
	CorrectCount int       `json:"correct_count"`
	Total        int       `json:"total"`
	RawScore     float64   `json:"raw_score"`
	Percentage   int       `json:"percentage"`
	Passed       bool      `json:"passed"`
	Outcomes     []Outcome `json:"outcomes"`
}

// AnsweredCount returns the number of questions with a recorded answer.
func (r *Report) AnsweredCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Answered() {
			n++
		}
	}
	return n
}

// Score grades answers (question index → option index) against def. A
// missing entry counts as incorrect; entries for indexes outside the
// definition are ignored.
func Score(def *exam.Definition, answers map[int]int) *Report {
	total := len(def.Questions)
	r := &Report{
		ExamID:   def.ID,
		Total:    total,
		Outcomes: make([]Outcome, total),
	}

	for i, q := range def.Questions {
		o := Outcome{
			QuestionID: q.ID,
			Selected:   Unanswered,
			Correct:    q.Correct,
		}
		if sel, ok := answers[i]; ok {
			o.Selected = sel
			o.IsCorrect = sel == q.Correct
		}
		if o.IsCorrect {
			r.CorrectCount++
		}
		r.Outcomes[i] = o
	}

	if total > 0 {
		r.RawScore = float64(r.CorrectCount) / float64(total)
		r.Percentage = Percentage(r.CorrectCount, total)
	}
	r.Passed = r.Percentage >= PassThreshold
	return r
}

// Percentage returns 100*correct/total rounded half up, using integer
// arithmetic so the result never depends on float rounding.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
