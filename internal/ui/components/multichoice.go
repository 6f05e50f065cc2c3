package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/ui/theme"
)

// MultiChoice shows one question with its options, a highlight cursor and the
// option currently recorded as the answer. It never reveals the correct
// option; picking an answer is left to the owner.
type MultiChoice struct {
	Prompt  string
	Options []string
	Cursor  int
	Chosen  int // -1 when unanswered
}

// NewMultiChoice creates a picker with the cursor on the chosen option, or on
// the first option when chosen is -1.
func NewMultiChoice(prompt string, options []string, chosen int) MultiChoice {
	cursor := chosen
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return MultiChoice{
		Prompt:  prompt,
		Options: options,
		Cursor:  cursor,
		Chosen:  chosen,
	}
}

// Update moves the cursor with the arrow keys.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	}
	return m, nil
}

// OptionLabel returns the letter shown for option i.
func OptionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// View renders the prompt and options wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(m.Prompt))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		marker := "○"
		if i == m.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, OptionLabel(i), opt)

		style := theme.Unselected
		switch {
		case i == m.Chosen:
			style = theme.Chosen
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
