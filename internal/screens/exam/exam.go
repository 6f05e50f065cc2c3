package exam

import (
	"context"
	"errors"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiner/internal/exam"
	"github.com/abhisek/examiner/internal/router"
	"github.com/abhisek/examiner/internal/screen"
	"github.com/abhisek/examiner/internal/screens"
	"github.com/abhisek/examiner/internal/screens/result"
	"github.com/abhisek/examiner/internal/session"
	"github.com/abhisek/examiner/internal/store"
	"github.com/abhisek/examiner/internal/ui/components"
	"github.com/abhisek/examiner/internal/ui/layout"
)

const publishTimeout = 5 * time.Second

type dialog int

const (
	dialogNone dialog = iota
	dialogSubmit
	dialogAbandon
)

// ExamScreen administers one timed attempt. It owns the session controller:
// every key press becomes a controller operation, and a tea tick polls the
// deadline so a timeout finalizes the attempt with no input at all.
type ExamScreen struct {
	deps    screens.Deps
	def     *exam.Definition
	ctrl    *session.Controller
	picker  components.MultiChoice
	dialog  dialog
	errMsg  string
	notice  string
	waiting bool // finalized, waiting for the sink
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)
var _ screen.EscCapturer = (*ExamScreen)(nil)

// New creates an ExamScreen for def. The attempt starts when the screen is
// shown.
func New(deps screens.Deps, def *exam.Definition) *ExamScreen {
	deps = deps.WithDefaults()
	s := &ExamScreen{deps: deps, def: def}

	ctrl, err := session.New(def,
		session.WithClock(deps.Clock),
		session.WithLogger(deps.Log),
	)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.ctrl = ctrl
	s.def = ctrl.Definition()
	s.syncPicker()
	return s
}

// Controller exposes the running attempt.
func (s *ExamScreen) Controller() *session.Controller {
	return s.ctrl
}

func (s *ExamScreen) Init() tea.Cmd {
	if s.ctrl == nil {
		return nil
	}
	if err := s.ctrl.Begin(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.record(store.ActionStart, -1, -1)
	return tickCmd(s.deps.Tick)
}

func (s *ExamScreen) Title() string {
	if s.def == nil {
		return "Exam"
	}
	return s.def.Title
}

func (s *ExamScreen) HeaderStatus() string {
	if s.ctrl == nil {
		return ""
	}
	return "⏱ " + layout.FormatClock(s.ctrl.RemainingSeconds())
}

func (s *ExamScreen) CapturesEsc() bool {
	return s.ctrl != nil && s.errMsg == ""
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.waiting:
		return nil
	case s.dialog != dialogNone:
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "Enter", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "Tab", Description: "Next unanswered"},
		{Key: "S", Description: "Submit"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTick()
	case publishedMsg:
		return s.handlePublished(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ExamScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.ctrl == nil || s.waiting {
		return s, nil
	}
	if s.ctrl.Tick() {
		return s, s.finish()
	}
	if s.ctrl.Status() != session.StatusInProgress {
		return s, nil
	}
	return s, tickCmd(s.deps.Tick)
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.ctrl == nil || s.waiting {
		return s, nil
	}

	if s.dialog != dialogNone {
		return s.handleDialogKey(key)
	}

	s.notice = ""
	q := s.ctrl.Cursor()

	switch key {
	case "esc":
		s.dialog = dialogAbandon
		return s, nil
	case "s", "S":
		s.dialog = dialogSubmit
		return s, nil
	case "enter", "space":
		return s, s.answer(q, s.picker.Cursor)
	case "left", "h", "p":
		return s, s.goTo(q - 1)
	case "right", "l", "n":
		return s, s.goTo(q + 1)
	case "tab":
		return s, s.goTo(s.nextUnanswered(q, 1))
	case "shift+tab":
		return s, s.goTo(s.nextUnanswered(q, -1))
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		if n > len(s.def.Questions[q].Options) {
			return s, nil
		}
		s.picker.Cursor = n - 1
		return s, s.answer(q, n-1)
	}

	var cmd tea.Cmd
	s.picker, cmd = s.picker.Update(msg)
	return s, cmd
}

func (s *ExamScreen) handleDialogKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "y", "Y":
		d := s.dialog
		s.dialog = dialogNone
		if d == dialogAbandon {
			s.ctrl.Close()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if _, err := s.ctrl.Finalize(); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		return s, s.finish()
	case "n", "N", "esc":
		s.dialog = dialogNone
	}
	return s, nil
}

// answer records an option, then checks whether the deadline ended the
// attempt in the meantime.
func (s *ExamScreen) answer(q, opt int) tea.Cmd {
	err := s.ctrl.Answer(q, opt)
	if err == nil {
		s.record(store.ActionAnswer, q, opt)
		s.syncPicker()
		return nil
	}
	return s.afterError(err)
}

func (s *ExamScreen) goTo(q int) tea.Cmd {
	if q < 0 || q >= len(s.def.Questions) {
		return nil
	}
	err := s.ctrl.GoTo(q)
	if err == nil {
		s.record(store.ActionNavigate, q, -1)
		s.syncPicker()
		return nil
	}
	return s.afterError(err)
}

func (s *ExamScreen) afterError(err error) tea.Cmd {
	if _, done := s.ctrl.Result(); done && errors.Is(err, session.ErrNotActive) {
		return s.finish()
	}
	s.notice = err.Error()
	return nil
}

// nextUnanswered finds the next question without an answer in direction dir,
// wrapping around. It returns from when every question is answered.
func (s *ExamScreen) nextUnanswered(from, dir int) int {
	snap := s.ctrl.Snapshot()
	n := snap.QuestionCount
	for step := 1; step < n; step++ {
		q := ((from+dir*step)%n + n) % n
		if !snap.Answered(q) {
			return q
		}
	}
	return from
}

// finish persists the terminal record and hands over to the result screen
// once the sink has seen it.
func (s *ExamScreen) finish() tea.Cmd {
	rec, ok := s.ctrl.Result()
	if !ok || s.waiting {
		return nil
	}
	s.waiting = true
	s.dialog = dialogNone

	action := store.ActionFinalize
	if rec.TimedOut() {
		action = store.ActionTimeout
	}
	s.record(action, -1, -1)

	sink, participant := s.deps.Sink, s.deps.Participant
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		return publishedMsg{Record: rec, Err: sink.Publish(ctx, participant, rec)}
	}
}

func (s *ExamScreen) handlePublished(msg publishedMsg) (screen.Screen, tea.Cmd) {
	summary := result.FromRecord(msg.Record, s.def, s.deps.Participant)
	if msg.Err != nil {
		s.deps.Log.Error().Err(msg.Err).Str("attempt_id", msg.Record.AttemptID).Msg("publish result")
		summary.Warning = "Result could not be saved: " + msg.Err.Error()
	}
	s.ctrl.Close()

	next := result.New(summary, s.deps.ExitAfterExam)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ExamScreen) syncPicker() {
	q := s.ctrl.Cursor()
	question := s.def.Questions[q]
	chosen := -1
	if opt, ok := s.ctrl.Snapshot().Answers[q]; ok {
		chosen = opt
	}
	cursor := s.picker.Cursor
	samePrompt := s.picker.Prompt == question.Prompt && len(s.picker.Options) == len(question.Options)
	s.picker = components.NewMultiChoice(question.Prompt, question.Options, chosen)
	if samePrompt && chosen < 0 {
		s.picker.Cursor = cursor
	}
}

// record appends an audit event. Failures are logged, never shown: the
// attempt itself does not depend on the audit trail.
func (s *ExamScreen) record(action string, q, opt int) {
	if s.deps.Events == nil || s.ctrl == nil {
		return
	}
	err := s.deps.Events.AppendAttemptEvent(context.Background(), store.AttemptEventData{
		AttemptID:     s.ctrl.AttemptID(),
		ExamID:        s.def.ID,
		Action:        action,
		QuestionIndex: q,
		OptionIndex:   opt,
		Timestamp:     s.deps.Clock.Now(),
	})
	if err != nil {
		s.deps.Log.Warn().Err(err).Str("action", action).Msg("append attempt event")
	}
}
