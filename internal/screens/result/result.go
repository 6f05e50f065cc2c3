package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/router"
	"github.com/abhisek/examiner/internal/scoring"
	"github.com/abhisek/examiner/internal/screen"
	"github.com/abhisek/examiner/internal/ui/layout"
	"github.com/abhisek/examiner/internal/ui/theme"
)

// ResultScreen shows the score of one attempt and its per-question outcomes.
type ResultScreen struct {
	summary    Summary
	offset     int
	quitOnExit bool
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a ResultScreen. With quitOnExit, closing the screen ends the
// program instead of going back.
func New(summary Summary, quitOnExit bool) *ResultScreen {
	return &ResultScreen{summary: summary, quitOnExit: quitOnExit}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Result"
}

// Summary returns what the screen displays.
func (s *ResultScreen) Summary() Summary {
	return s.summary
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	action := "Back"
	if s.quitOnExit {
		action = "Quit"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: action},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.offset < len(s.summary.Lines)-1 {
			s.offset++
		}
	case "enter", "esc", "q":
		if s.quitOnExit {
			return s, tea.Quit
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n")

	if sum.TimedOut {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), "Time's up!"))
		b.WriteString("\n")
	}
	b.WriteString(center(theme.Title, sum.ExamTitle))
	b.WriteString("\n\n")

	verdict := theme.Incorrect.Render("FAIL")
	if sum.Passed {
		verdict = theme.Correct.Render("PASS")
	}
	b.WriteString(center(lipgloss.NewStyle().Bold(true).Foreground(theme.Text),
		fmt.Sprintf("%d%%   %s", sum.Percentage, verdict)))
	b.WriteString("\n")
	b.WriteString(center(theme.Muted, fmt.Sprintf(
		"%d of %d correct   •   pass mark %d%%   •   %s",
		sum.CorrectCount, sum.Total, scoring.PassThreshold,
		layout.FormatClock(int(sum.Elapsed.Seconds())))))
	b.WriteString("\n")

	if sum.Warning != "" {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Warning), sum.Warning))
		b.WriteString("\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	used := lipgloss.Height(b.String())
	room := height - used
	lineWidth := min(width-8, 72)
	for i := s.offset; i < len(sum.Lines) && room > 0; i++ {
		block := renderLine(sum.Lines[i], lineWidth)
		h := lipgloss.Height(block)
		if h > room && i > s.offset {
			break
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
		b.WriteString("\n")
		room -= h + 1
	}

	return b.String()
}

func renderLine(l Line, width int) string {
	mark := theme.Correct.Render("✓")
	if !l.IsCorrect {
		mark = theme.Incorrect.Render("✗")
	}

	head := lipgloss.NewStyle().Foreground(theme.Text).Width(width).
		Render(fmt.Sprintf("%s %d. %s", mark, l.Number, l.Prompt))

	var detail string
	switch {
	case l.IsCorrect:
		detail = "Your answer: " + l.Selected
	case !l.Answered():
		detail = "Not answered   •   Correct: " + l.Correct
	default:
		detail = "Your answer: " + l.Selected + "   •   Correct: " + l.Correct
	}
	return head + "\n" + theme.Muted.Width(width).Render("     "+detail)
}
