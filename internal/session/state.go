package session

import (
	"fmt"
	"time"

	"github.com/abhisek/examiner/internal/exam"
)

// Status is the lifecycle phase of an attempt.
type Status int

const (
	StatusNotStarted Status = iota // Created, timer not armed
	StatusInProgress               // Accepting answers and navigation
	StatusSubmitting               // Answers frozen, score being computed
	StatusCompleted                // Finalized by the participant
	StatusTimedOut                 // Finalized by the deadline
)

var statusNames = [...]string{"not_started", "in_progress", "submitting", "completed", "timed_out"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Terminal reports whether the attempt has been finalized.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusTimedOut
}

// ParseStatus converts the String form back to a Status.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AnswerMap maps a question index to the selected option index.
type AnswerMap map[int]int

// Clone returns an independent copy.
func (m AnswerMap) Clone() AnswerMap {
	c := make(AnswerMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// AttemptState holds one participant's pass through an exam. Only SetAnswer
// and MoveCursor mutate it from outside the package, and only while the
// attempt is in progress.
type AttemptState struct {
	def         *exam.Definition
	answers     AnswerMap
	cursor      int
	status      Status
	startedAt   time.Time
	completedAt time.Time
	completed   bool
}

// NewAttemptState creates a not-started attempt for def. def must already be
// validated.
func NewAttemptState(def *exam.Definition) *AttemptState {
	return &AttemptState{
		def:     def,
		answers: make(AnswerMap),
		status:  StatusNotStarted,
	}
}

// SetAnswer records optionIndex as the answer to questionIndex, replacing any
// earlier answer.
func (a *AttemptState) SetAnswer(questionIndex, optionIndex int) error {
	if a.status != StatusInProgress {
		return fmt.Errorf("%w: set answer while %s", ErrInvalidTransition, a.status)
	}
	if questionIndex < 0 || questionIndex >= len(a.def.Questions) {
		return fmt.Errorf("%w: question %d of %d", ErrOutOfRange, questionIndex, len(a.def.Questions))
	}
	opts := len(a.def.Questions[questionIndex].Options)
	if optionIndex < 0 || optionIndex >= opts {
		return fmt.Errorf("%w: option %d of %d for question %d", ErrOutOfRange, optionIndex, opts, questionIndex)
	}
	a.answers[questionIndex] = optionIndex
	return nil
}

// MoveCursor moves the current-question cursor. Any question may be visited
// in any order.
func (a *AttemptState) MoveCursor(questionIndex int) error {
	if a.status != StatusInProgress {
		return fmt.Errorf("%w: move cursor while %s", ErrInvalidTransition, a.status)
	}
	if questionIndex < 0 || questionIndex >= len(a.def.Questions) {
		return fmt.Errorf("%w: question %d of %d", ErrOutOfRange, questionIndex, len(a.def.Questions))
	}
	a.cursor = questionIndex
	return nil
}

func (a *AttemptState) begin(at time.Time) error {
	if a.status != StatusNotStarted {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, a.status)
	}
	a.status = StatusInProgress
	a.startedAt = at
	return nil
}

// submit freezes the answers ahead of scoring.
func (a *AttemptState) submit() error {
	if a.status != StatusInProgress {
		return fmt.Errorf("%w: submit while %s", ErrInvalidTransition, a.status)
	}
	a.status = StatusSubmitting
	return nil
}

func (a *AttemptState) complete(terminal Status, at time.Time) error {
	if a.status != StatusSubmitting || !terminal.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.status, terminal)
	}
	if at.Before(a.startedAt) {
		at = a.startedAt
	}
	a.status = terminal
	a.completedAt = at
	a.completed = true
	return nil
}

// assertInvariants panics if the state has been corrupted. Every mutation
// enforces the invariants, so reaching the panic is a programming error.
func (a *AttemptState) assertInvariants() {
	if a.cursor < 0 || a.cursor >= len(a.def.Questions) {
		panic(fmt.Sprintf("session: cursor %d outside [0,%d)", a.cursor, len(a.def.Questions)))
	}
	if a.status.Terminal() != a.completed {
		panic(fmt.Sprintf("session: status %s with completion time %v", a.status, a.completedAt))
	}
	for q, opt := range a.answers {
		if q < 0 || q >= len(a.def.Questions) || opt < 0 || opt >= len(a.def.Questions[q].Options) {
			panic(fmt.Sprintf("session: answer %d->%d outside definition", q, opt))
		}
	}
}

func (a *AttemptState) Definition() *exam.Definition { return a.def }
func (a *AttemptState) Status() Status               { return a.status }
func (a *AttemptState) Cursor() int                  { return a.cursor }
func (a *AttemptState) StartedAt() time.Time         { return a.startedAt }

// CompletedAt returns the completion time and whether it is set.
func (a *AttemptState) CompletedAt() (time.Time, bool) {
	return a.completedAt, a.completed
}

// Answers returns a copy of the answer map.
func (a *AttemptState) Answers() AnswerMap {
	return a.answers.Clone()
}

// Answer returns the selected option for questionIndex, if any.
func (a *AttemptState) Answer(questionIndex int) (int, bool) {
	opt, ok := a.answers[questionIndex]
	return opt, ok
}
