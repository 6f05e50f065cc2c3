package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/catalog"
	"github.com/abhisek/examiner/internal/router"
	"github.com/abhisek/examiner/internal/screen"
	"github.com/abhisek/examiner/internal/screens"
	examscreen "github.com/abhisek/examiner/internal/screens/exam"
	"github.com/abhisek/examiner/internal/screens/history"
	"github.com/abhisek/examiner/internal/store"
	"github.com/abhisek/examiner/internal/ui/components"
	"github.com/abhisek/examiner/internal/ui/layout"
	"github.com/abhisek/examiner/internal/ui/theme"
)

const maxNameLength = 40

type statsLoadedMsg struct {
	Stats map[string]store.ExamStats
	Err   error
}

// HomeScreen lists the exams of the catalog. Without a participant name it
// asks for one first.
type HomeScreen struct {
	deps    screens.Deps
	entries []catalog.Entry
	menu    components.Menu
	name    components.TextInput
	askName bool
	stats   map[string]store.ExamStats
	notice  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{
		deps:    deps.WithDefaults(),
		askName: strings.TrimSpace(deps.Participant) == "",
		stats:   make(map[string]store.ExamStats),
	}
	if deps.Catalog != nil {
		h.entries = deps.Catalog.List()
		if n := len(deps.Catalog.Problems()); n > 0 {
			h.notice = fmt.Sprintf("⚠ %d exam file(s) could not be loaded (see examiner validate)", n)
		}
	}
	if h.askName {
		h.name = components.NewTextInput("Your name", maxNameLength)
	}
	h.buildMenu()
	return h
}

// Participant returns the name attempts are recorded under.
func (h *HomeScreen) Participant() string {
	return h.deps.Participant
}

func (h *HomeScreen) buildMenu() {
	items := make([]components.MenuItem, 0, len(h.entries)+2)
	for _, e := range h.entries {
		def := e.Definition
		detail := fmt.Sprintf("%d questions · %s", def.QuestionCount(), layout.FormatClock(def.DurationSeconds))
		if st, ok := h.stats[def.ID]; ok && st.Attempts > 0 {
			detail += fmt.Sprintf(" · best %d%%", st.Best)
		}
		items = append(items, components.MenuItem{
			Label:  def.Title,
			Detail: detail,
			Action: func() tea.Cmd { return h.startExam(def.ID) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "History", Disabled: h.deps.Results == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.deps.Results, h.deps.Catalog)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) startExam(id string) tea.Cmd {
	def, err := h.deps.Catalog.Lookup(id)
	if err != nil {
		h.notice = err.Error()
		return nil
	}
	h.deps.Log.Info().Str("exam_id", id).Str("participant", h.deps.Participant).Msg("starting exam")
	next := examscreen.New(h.deps, def)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{h.loadStats()}
	if h.askName {
		cmds = append(cmds, h.name.Init())
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo, entries := h.deps.Results, h.entries
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		out := make(map[string]store.ExamStats, len(entries))
		for _, e := range entries {
			st, err := repo.ExamStats(context.Background(), e.Definition.ID)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			out[e.Definition.ID] = *st
		}
		return statsLoadedMsg{Stats: out}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) HeaderStatus() string {
	return h.deps.Participant
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.askName {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "R", Description: "Refresh"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			h.deps.Log.Warn().Err(msg.Err).Msg("load exam stats")
			return h, nil
		}
		h.stats = msg.Stats
		h.buildMenu()
		return h, nil

	case tea.KeyMsg:
		if h.askName {
			return h.updateName(msg)
		}
		if msg.String() == "r" {
			return h, h.loadStats()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) updateName(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		name := h.name.Value()
		if name == "" {
			h.name.SetError("Please enter a name")
			return h, nil
		}
		h.deps.Participant = name
		h.askName = false
		return h, nil
	}
	var cmd tea.Cmd
	h.name, cmd = h.name.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	sections := []string{renderTitle(cw)}

	if h.askName {
		prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Who is taking the exam?")
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(
			lipgloss.JoinVertical(lipgloss.Left, prompt, "", h.name.View())))
		return renderFrame(strings.Join(sections, "\n\n"), width, height)
	}

	attempts, passes := 0, 0
	for _, st := range h.stats {
		attempts += st.Attempts
		passes += st.Passes
	}
	sections = append(sections, renderStatsBar(len(h.entries), attempts, passes, cw))

	if len(h.entries) == 0 {
		sections = append(sections, theme.Muted.Width(cw).Align(lipgloss.Center).
			Render("No exams found. Add exam files to your exams directory."))
	}
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}

	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
