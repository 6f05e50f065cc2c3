package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/ui/components"
	"github.com/abhisek/examiner/internal/ui/layout"
	"github.com/abhisek/examiner/internal/ui/theme"
)

const lowTimeFraction = 0.2

func (s *ExamScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if s.ctrl == nil {
		return ""
	}
	if s.waiting {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Scoring...")
	}

	if s.dialog != dialogNone {
		return components.Dialog(s.renderDialog(), width, height)
	}
	return s.renderQuestion(width)
}

func (s *ExamScreen) renderQuestion(width int) string {
	snap := s.ctrl.Snapshot()
	cw := components.ContentWidth(width)

	var b strings.Builder

	info := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d", snap.Cursor+1, snap.QuestionCount))
	answered := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d answered", len(snap.Answers)))
	pad := cw - lipgloss.Width(info) - lipgloss.Width(answered)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(info + strings.Repeat(" ", pad) + answered)
	b.WriteString("\n")
	b.WriteString(renderStrip(snap.QuestionCount, snap.Cursor, snap.Answered))
	b.WriteString("\n\n")

	total := s.def.DurationSeconds
	fraction := 0.0
	if total > 0 {
		fraction = float64(snap.RemainingSeconds) / float64(total)
	}
	bar := components.NewProgressBar(layout.FormatClock(snap.RemainingSeconds), fraction, false, cw)
	bar.LowAt = lowTimeFraction
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(s.picker.View(cw))

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(b.String(), cw+4))
}

// renderStrip draws one cell per question: the current one bracketed,
// answered ones filled.
func renderStrip(n, current int, answered func(int) bool) string {
	cells := make([]string, n)
	for i := range n {
		glyph := "·"
		style := theme.Muted
		if answered(i) {
			glyph = "■"
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		if i == current {
			glyph = "[" + glyph + "]"
			style = style.Bold(true)
		} else {
			glyph = " " + glyph + " "
		}
		cells[i] = style.Render(glyph)
	}
	return strings.Join(cells, "")
}

func (s *ExamScreen) renderDialog() string {
	snap := s.ctrl.Snapshot()
	if s.dialog == dialogAbandon {
		return lipgloss.JoinVertical(lipgloss.Center,
			theme.Title.Render("Abandon this attempt?"),
			"",
			theme.Muted.Render("Nothing will be scored or saved."),
			"",
			theme.Hint.Render("y = abandon   n = keep going"),
		)
	}

	unanswered := snap.QuestionCount - len(snap.Answers)
	detail := "All questions answered."
	if unanswered > 0 {
		detail = fmt.Sprintf("%d unanswered question(s) will be scored as incorrect.", unanswered)
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Submit your answers?"),
		"",
		theme.Muted.Render(detail),
		theme.Muted.Render(layout.FormatClock(snap.RemainingSeconds)+" remaining"),
		"",
		theme.Hint.Render("y = submit   n = keep going"),
	)
}
