package result

import (
	"time"

	"github.com/abhisek/examiner/internal/exam"
	"github.com/abhisek/examiner/internal/scoring"
	"github.com/abhisek/examiner/internal/session"
	"github.com/abhisek/examiner/internal/store"
	"github.com/abhisek/examiner/internal/ui/components"
)

// Line is one question of the report.
type Line struct {
	Number    int
	Prompt    string
	Selected  string // empty when unanswered
	Correct   string
	IsCorrect bool
}

// Answered reports whether the participant chose an option.
func (l Line) Answered() bool {
	return l.Selected != ""
}

// Summary is everything the result screen shows.
type Summary struct {
	AttemptID    string
	ExamTitle    string
	Participant  string
	TimedOut     bool
	CorrectCount int
	Total        int
	Percentage   int
	Passed       bool
	Elapsed      time.Duration
	Lines        []Line
	Warning      string
}

// FromRecord builds a summary for an attempt that just finished.
func FromRecord(rec *session.Record, def *exam.Definition, participant string) Summary {
	return Summary{
		AttemptID:    rec.AttemptID,
		ExamTitle:    rec.ExamTitle,
		Participant:  participant,
		TimedOut:     rec.TimedOut(),
		CorrectCount: rec.CorrectCount,
		Total:        rec.Total,
		Percentage:   rec.Percentage,
		Passed:       rec.Passed,
		Elapsed:      rec.Elapsed(),
		Lines:        lines(rec.Outcomes, def),
	}
}

// FromStored builds a summary for a result loaded from the store. def may be
// nil when the exam is no longer in the catalog; lines then show question IDs
// and option letters only.
func FromStored(res *store.ExamResult, def *exam.Definition) Summary {
	return Summary{
		AttemptID:    res.AttemptID,
		ExamTitle:    res.ExamTitle,
		Participant:  res.Participant,
		TimedOut:     res.Status == session.StatusTimedOut.String(),
		CorrectCount: res.CorrectCount,
		Total:        res.Total,
		Percentage:   res.Percentage,
		Passed:       res.Passed,
		Elapsed:      res.Elapsed(),
		Lines:        lines(res.Outcomes, def),
	}
}

func lines(outcomes []scoring.Outcome, def *exam.Definition) []Line {
	out := make([]Line, len(outcomes))
	for i, o := range outcomes {
		l := Line{
			Number:    i + 1,
			Prompt:    o.QuestionID,
			Correct:   components.OptionLabel(o.Correct),
			IsCorrect: o.IsCorrect,
		}
		if o.Answered() {
			l.Selected = components.OptionLabel(o.Selected)
		}

		// Use the definition text only if it still matches the stored outcome.
		if def != nil && i < len(def.Questions) && def.Questions[i].ID == o.QuestionID {
			q := def.Questions[i]
			l.Prompt = q.Prompt
			if o.Correct < len(q.Options) {
				l.Correct += ") " + q.Options[o.Correct]
			}
			if o.Answered() && o.Selected < len(q.Options) {
				l.Selected += ") " + q.Options[o.Selected]
			}
		}
		out[i] = l
	}
	return out
}
