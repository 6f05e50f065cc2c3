package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/ui/theme"
)

const titleText = "E · X · A · M · I · N · E · R"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(titleText))
}

// renderStatsBar shows catalog and history totals in a double-bordered box.
func renderStatsBar(exams, attempts, passes, cw int) string {
	examStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	attemptStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	passStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	stats := fmt.Sprintf("%s  %s  %s",
		examStyle.Render(fmt.Sprintf("%d EXAMS", exams)),
		attemptStyle.Render(fmt.Sprintf("%d ATTEMPTS", attempts)),
		passStyle.Render(fmt.Sprintf("%d PASSED", passes)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderFrame wraps content in a double-border frame, centered vertically
// and horizontally within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
