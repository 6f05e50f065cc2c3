package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/examiner/internal/scoring"
)

// ErrNotFound is returned when a requested result does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures result queries with filtering and pagination.
type QueryOpts struct {
	Limit       int    // max results (0 = unlimited)
	ExamID      string // only this exam when set
	Participant string // only this participant when set
}

// ExamResult is one finalized attempt as persisted.
type ExamResult struct {
	ID           int64
	Sequence     int64
	AttemptID    string
	ExamID       string
	ExamTitle    string
	Participant  string
	Status       string
	StartedAt    time.Time
	CompletedAt  time.Time
	CorrectCount int
	Total        int
	Percentage   int
	Passed       bool
	Answers      map[int]int
	Outcomes     []scoring.Outcome
	RecordedAt   time.Time
}

// Elapsed returns the time the attempt took.
func (r *ExamResult) Elapsed() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// ExamStats aggregates all stored attempts of one exam.
type ExamStats struct {
	ExamID      string
	Attempts    int
	Passes      int
	TimedOut    int
	Best        int
	Average     float64
	LastAttempt time.Time
}

// ResultRepo persists finalized attempts.
type ResultRepo interface {
	// Save stores a result. Saving the same attempt twice is an error.
	Save(ctx context.Context, r *ExamResult) error

	// Get returns the result for attemptID, or ErrNotFound.
	Get(ctx context.Context, attemptID string) (*ExamResult, error)

	// List returns results newest first.
	List(ctx context.Context, opts QueryOpts) ([]ExamResult, error)

	// ExamStats summarizes the stored attempts of examID.
	ExamStats(ctx context.Context, examID string) (*ExamStats, error)

	// DeleteAll removes every result and event. Returns the number of
	// results removed.
	DeleteAll(ctx context.Context) (int, error)
}

// Attempt event actions.
const (
	ActionStart    = "start"
	ActionAnswer   = "answer"
	ActionNavigate = "navigate"
	ActionFinalize = "finalize"
	ActionTimeout  = "timeout"
)

// AttemptEventData captures one step of an attempt for the audit trail.
// QuestionIndex and OptionIndex are -1 when they do not apply.
type AttemptEventData struct {
	AttemptID     string
	ExamID        string
	Action        string
	QuestionIndex int
	OptionIndex   int
	Timestamp     time.Time
}

// AttemptEvent is a stored AttemptEventData with its global sequence.
type AttemptEvent struct {
	Sequence int64
	AttemptEventData
}

// EventRepo provides append and query access to attempt events.
type EventRepo interface {
	// AppendAttemptEvent records one attempt step.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// AttemptEvents returns the events of attemptID in sequence order.
	AttemptEvents(ctx context.Context, attemptID string) ([]AttemptEvent, error)
}
