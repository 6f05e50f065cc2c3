package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiner/internal/router"
	"github.com/abhisek/examiner/internal/screen"
	"github.com/abhisek/examiner/internal/screens"
	examscreen "github.com/abhisek/examiner/internal/screens/exam"
	"github.com/abhisek/examiner/internal/screens/home"
	"github.com/abhisek/examiner/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router      *router.Router
	participant string
	// quitOnRootPop ends the program when the root screen asks to go back,
	// for runs that start directly in an exam.
	quitOnRootPop bool
	width         int
	height        int
}

// newAppModel creates the root model. With examID set, the exam screen is
// the root and closing its result quits the program.
func newAppModel(deps screens.Deps, examID string) (AppModel, error) {
	if examID == "" {
		return AppModel{
			router:      router.New(home.New(deps)),
			participant: deps.Participant,
		}, nil
	}

	if deps.Catalog == nil {
		return AppModel{}, fmt.Errorf("no catalog loaded")
	}
	def, err := deps.Catalog.Lookup(examID)
	if err != nil {
		return AppModel{}, err
	}
	deps.ExitAfterExam = true
	return AppModel{
		router:        router.New(examscreen.New(deps, def)),
		participant:   deps.Participant,
		quitOnRootPop: true,
	}, nil
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.PopScreenMsg:
		if m.quitOnRootPop && m.router.Depth() == 1 {
			return m, tea.Quit
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ec, ok := m.router.Active().(screen.EscCapturer); ok && ec.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) title() string {
	if active := m.router.Active(); active != nil {
		return active.Title()
	}
	return ""
}

// status prefers what the active screen reports, then the participant.
func (m AppModel) status() string {
	if sp, ok := m.router.Active().(screen.StatusProvider); ok {
		if s := sp.HeaderStatus(); s != "" {
			return s
		}
	}
	return m.participant
}

func (m AppModel) hints() []layout.KeyHint {
	var hints []layout.KeyHint
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program. examID, when set, skips the home screen.
func Run(deps screens.Deps, examID string) error {
	model, err := newAppModel(deps, examID)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
