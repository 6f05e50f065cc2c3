package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/catalog"
	"github.com/abhisek/examiner/internal/exam"
	"github.com/abhisek/examiner/internal/router"
	"github.com/abhisek/examiner/internal/screen"
	"github.com/abhisek/examiner/internal/screens/result"
	"github.com/abhisek/examiner/internal/session"
	"github.com/abhisek/examiner/internal/store"
	"github.com/abhisek/examiner/internal/ui/layout"
	"github.com/abhisek/examiner/internal/ui/theme"
)

const pageLimit = 100

type historyLoadedMsg struct {
	Results []store.ExamResult
	Err     error
}

// HistoryScreen lists stored results, newest first.
type HistoryScreen struct {
	results  store.ResultRepo
	catalog  *catalog.Catalog
	items    []store.ExamResult
	selected int
	examIDs  []string // filter cycle, "" means all exams
	filter   int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. cat resolves question text for the detail
// view and may be nil.
func New(results store.ResultRepo, cat *catalog.Catalog) *HistoryScreen {
	ids := []string{""}
	if cat != nil {
		for _, e := range cat.List() {
			ids = append(ids, e.Definition.ID)
		}
	}
	return &HistoryScreen{results: results, catalog: cat, examIDs: ids}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	repo, examID := s.results, s.examIDs[s.filter]
	return func() tea.Msg {
		items, err := repo.List(context.Background(), store.QueryOpts{Limit: pageLimit, ExamID: examID})
		return historyLoadedMsg{Results: items, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "F", Description: "Filter exam"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.items = msg.Results
		}
		s.selected = 0
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		case "f":
			s.filter = (s.filter + 1) % len(s.examIDs)
			s.loaded = false
			return s, s.load()
		case "enter":
			if s.selected < len(s.items) {
				res := s.items[s.selected]
				next := result.New(result.FromStored(&res, s.lookup(res.ExamID)), false)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) lookup(examID string) *exam.Definition {
	if s.catalog == nil {
		return nil
	}
	def, err := s.catalog.Lookup(examID)
	if err != nil {
		return nil
	}
	return def
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString("\n")

	filter := "All exams"
	if id := s.examIDs[s.filter]; id != "" {
		filter = id
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Muted.Render("Showing: "+filter)))
	b.WriteString("\n\n")

	if len(s.items) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No results yet. Take an exam!"))
		return b.String()
	}

	// Keep the selection visible.
	room := height - 4
	if room < 1 {
		room = 1
	}
	start := 0
	if s.selected >= room {
		start = s.selected - room + 1
	}

	for i := start; i < len(s.items) && i < start+room; i++ {
		r := s.items[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-24s  %-12s  %3d%%  %s  %s",
			prefix,
			r.CompletedAt.Local().Format("Jan 02 15:04"),
			truncate(r.ExamTitle, 24),
			truncate(r.Participant, 12),
			r.Percentage,
			layout.FormatClock(int(r.Elapsed().Seconds())),
			verdict(r),
		)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func verdict(r store.ExamResult) string {
	switch {
	case r.Status == session.StatusTimedOut.String() && r.Passed:
		return theme.Correct.Render("PASS") + theme.Muted.Render(" (time)")
	case r.Status == session.StatusTimedOut.String():
		return theme.Incorrect.Render("FAIL") + theme.Muted.Render(" (time)")
	case r.Passed:
		return theme.Correct.Render("PASS")
	}
	return theme.Incorrect.Render("FAIL")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
