package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/examiner/internal/clock"
	"github.com/abhisek/examiner/internal/countdown"
	"github.com/abhisek/examiner/internal/exam"
	"github.com/abhisek/examiner/internal/scoring"
)

// Record is the outcome of a finalized attempt. It is built exactly once and
// must not be modified by its holders.
type Record struct {
	AttemptID   string    `json:"attempt_id"`
	ExamTitle   string    `json:"exam_title"`
	Status      Status    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Answers     AnswerMap `json:"answers"`
	scoring.Report
}

// Elapsed returns how long the attempt lasted.
func (r *Record) Elapsed() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// TimedOut reports whether the deadline finalized the attempt.
func (r *Record) TimedOut() bool {
	return r.Status == StatusTimedOut
}

// Snapshot is a read-only view of a controller at one instant.
type Snapshot struct {
	AttemptID        string
	ExamID           string
	Status           Status
	Cursor           int
	QuestionCount    int
	Answers          AnswerMap
	StartedAt        time.Time
	CompletedAt      time.Time
	RemainingSeconds int
}

// Answered reports whether question i has an answer in the snapshot.
func (s Snapshot) Answered(i int) bool {
	_, ok := s.Answers[i]
	return ok
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source. Defaults to clock.Real.
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// WithAttemptID overrides the generated attempt ID.
func WithAttemptID(id string) Option {
	return func(ctl *Controller) { ctl.attemptID = id }
}

// WithOnTimeout registers fn to be called once if the deadline finalizes the
// attempt. fn runs on the goroutine that observed the deadline, outside the
// controller lock. It must not call Close, since Close waits for running
// notifications.
func WithOnTimeout(fn func(*Record)) Option {
	return func(ctl *Controller) {
		if fn != nil {
			ctl.onTimeout = append(ctl.onTimeout, fn)
		}
	}
}

// Controller administers one timed attempt. All methods are safe for
// concurrent use; mutations are serialized so a timeout and an explicit
// Finalize can never both take effect.
type Controller struct {
	mu        sync.Mutex
	clock     clock.Clock
	log       zerolog.Logger
	attemptID string
	def       *exam.Definition
	state     *AttemptState
	timer     *countdown.Timer
	record    *Record
	onTimeout []func(*Record)
	notifyMu  sync.RWMutex // held for reading while onTimeout callbacks run
	done      chan struct{}
	closed    bool

	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

// New validates def and returns a controller in the not-started state. The
// controller keeps its own copy of def.
func New(def *exam.Definition, opts ...Option) (*Controller, error) {
	if err := exam.Validate(def); err != nil {
		return nil, err
	}

	c := &Controller{
		clock: clock.Real{},
		log:   zerolog.Nop(),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attemptID == "" {
		c.attemptID = uuid.New().String()
	}

	c.def = def.Clone()
	c.state = NewAttemptState(c.def)
	c.timer = countdown.New(c.def.Duration(), c.clock)
	c.log = c.log.With().
		Str("attempt_id", c.attemptID).
		Str("exam_id", c.def.ID).
		Logger()
	return c, nil
}

// Start creates a controller for def and begins the attempt immediately.
func Start(def *exam.Definition, opts ...Option) (*Controller, error) {
	c, err := New(def, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Begin(); err != nil {
		return nil, err
	}
	return c, nil
}

// Begin records the start time and arms the countdown.
func (c *Controller) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("%w: controller closed", ErrNotActive)
	}
	startedAt := c.clock.Now()
	if err := c.state.begin(startedAt); err != nil {
		return err
	}
	c.timer.Start()
	c.log.Info().
		Int("questions", c.def.QuestionCount()).
		Int("duration_secs", c.def.DurationSeconds).
		Msg("attempt started")
	return nil
}

// Answer records optionIndex for questionIndex. Answers may be changed any
// number of times until the attempt is finalized.
func (c *Controller) Answer(questionIndex, optionIndex int) error {
	c.mu.Lock()
	expired := c.expireLocked()
	err := c.activeLocked()
	if err == nil {
		err = c.state.SetAnswer(questionIndex, optionIndex)
	}
	if err == nil {
		c.log.Debug().Int("question", questionIndex).Int("option", optionIndex).Msg("answer recorded")
	}
	c.mu.Unlock()

	c.notifyTimeout(expired)
	return err
}

// GoTo moves the cursor to questionIndex.
func (c *Controller) GoTo(questionIndex int) error {
	c.mu.Lock()
	expired := c.expireLocked()
	err := c.activeLocked()
	if err == nil {
		err = c.state.MoveCursor(questionIndex)
	}
	c.mu.Unlock()

	c.notifyTimeout(expired)
	return err
}

// Finalize ends the attempt and returns its record. After the first
// successful call it returns the same record without recomputing it. If the
// deadline has already passed, the attempt finalizes as timed out.
func (c *Controller) Finalize() (*Record, error) {
	c.mu.Lock()
	switch {
	case c.state.Status() == StatusNotStarted:
		c.mu.Unlock()
		return nil, ErrNotStarted
	case c.record != nil:
		rec := c.record
		c.mu.Unlock()
		return rec, nil
	case c.closed:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: controller closed", ErrNotActive)
	}

	expired := c.expireLocked()
	rec := expired
	if rec == nil {
		rec = c.finalizeLocked(StatusCompleted)
	}
	c.mu.Unlock()

	c.notifyTimeout(expired)
	return rec, nil
}

// Tick polls the countdown and finalizes the attempt if the deadline has
// passed. It reports whether this call caused the timeout. Callers drive it
// at a fixed cadence, or use Watch.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	expired := c.expireLocked()
	c.mu.Unlock()

	c.notifyTimeout(expired)
	return expired != nil
}

// Watch starts a goroutine that calls Tick every interval until the attempt
// is finalized, ctx is cancelled or Close is called. Only the first call has
// an effect.
func (c *Controller) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = countdown.DefaultCadence
	}

	c.mu.Lock()
	if c.watchCancel != nil || c.closed {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	c.watchCancel = cancel
	c.watchDone = watchDone
	c.mu.Unlock()

	go func() {
		defer close(watchDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-ticker.C:
				c.Tick()
			}
		}
	}()
}

// Close disposes of the controller: the countdown is stopped, any watcher
// goroutine has exited when Close returns, and no timeout notification is
// delivered afterwards. A finalized record stays available.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.timer.Stop()
	cancel, watchDone := c.watchCancel, c.watchDone
	if c.record == nil {
		c.log.Info().Str("status", c.state.Status().String()).Msg("attempt discarded")
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-watchDone
	}

	// Wait out notifications that started before closed was set.
	c.notifyMu.Lock()
	c.notifyMu.Unlock()
}

// Done is closed when the attempt is finalized.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Result returns the record once the attempt is finalized.
func (c *Controller) Result() (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record, c.record != nil
}

// AttemptID returns the attempt identifier.
func (c *Controller) AttemptID() string {
	return c.attemptID
}

// Definition returns a copy of the exam being administered.
func (c *Controller) Definition() *exam.Definition {
	return c.def.Clone()
}

// Status returns the current lifecycle phase.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status()
}

// Cursor returns the index of the current question.
func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Cursor()
}

// Remaining returns the time left before the deadline.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.Remaining()
}

// RemainingSeconds returns the whole seconds left, rounded up. It is the
// full duration before Begin and frozen once the attempt is finalized.
func (c *Controller) RemainingSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.RemainingSeconds()
}

// Snapshot returns a consistent read-only view of the attempt.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	completedAt, _ := c.state.CompletedAt()
	return Snapshot{
		AttemptID:        c.attemptID,
		ExamID:           c.def.ID,
		Status:           c.state.Status(),
		Cursor:           c.state.Cursor(),
		QuestionCount:    c.def.QuestionCount(),
		Answers:          c.state.Answers(),
		StartedAt:        c.state.StartedAt(),
		CompletedAt:      completedAt,
		RemainingSeconds: c.timer.RemainingSeconds(),
	}
}

// activeLocked returns nil only when mutations are allowed.
func (c *Controller) activeLocked() error {
	switch {
	case c.closed:
		return fmt.Errorf("%w: controller closed", ErrNotActive)
	case c.state.Status() == StatusNotStarted:
		return ErrNotStarted
	case c.state.Status() != StatusInProgress:
		return fmt.Errorf("%w: attempt is %s", ErrNotActive, c.state.Status())
	}
	return nil
}

// expireLocked finalizes the attempt as timed out if the countdown reports
// expiry, returning the new record. It returns nil in every other case.
func (c *Controller) expireLocked() *Record {
	if c.closed || c.state.Status() != StatusInProgress {
		return nil
	}
	if !c.timer.Poll() {
		return nil
	}
	return c.finalizeLocked(StatusTimedOut)
}

// finalizeLocked is the single finalization path for both triggers.
func (c *Controller) finalizeLocked(terminal Status) *Record {
	if err := c.state.submit(); err != nil {
		panic(err)
	}
	c.timer.Stop()

	completedAt := c.clock.Now()
	if terminal == StatusTimedOut {
		completedAt = c.timer.Deadline()
	}

	report := scoring.Score(c.def, c.state.answers)

	if err := c.state.complete(terminal, completedAt); err != nil {
		panic(err)
	}
	c.state.assertInvariants()

	completedAt, _ = c.state.CompletedAt()
	c.record = &Record{
		AttemptID:   c.attemptID,
		ExamTitle:   c.def.Title,
		Status:      terminal,
		StartedAt:   c.state.StartedAt(),
		CompletedAt: completedAt,
		Answers:     c.state.Answers(),
		Report:      *report,
	}
	close(c.done)

	c.log.Info().
		Str("status", terminal.String()).
		Int("correct", report.CorrectCount).
		Int("total", report.Total).
		Int("percentage", report.Percentage).
		Bool("passed", report.Passed).
		Msg("attempt finalized")
	return c.record
}

func (c *Controller) notifyTimeout(rec *Record) {
	if rec == nil {
		return
	}
	c.notifyMu.RLock()
	defer c.notifyMu.RUnlock()

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	for _, fn := range c.onTimeout {
		fn(rec)
	}
}
