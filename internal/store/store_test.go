package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/examiner/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleResult(attemptID, examID string, pct int, passed bool) *ExamResult {
	return &ExamResult{
		AttemptID:    attemptID,
		ExamID:       examID,
		ExamTitle:    "Title of " + examID,
		Participant:  "ada",
		Status:       "completed",
		StartedAt:    base,
		CompletedAt:  base.Add(90 * time.Second),
		CorrectCount: pct / 20,
		Total:        5,
		Percentage:   pct,
		Passed:       passed,
		Answers:      map[int]int{0: 1, 3: 2},
		Outcomes: []scoring.Outcome{
			{QuestionID: "q1", Selected: 1, Correct: 1, IsCorrect: true},
			{QuestionID: "q2", Selected: scoring.Unanswered, Correct: 0},
		},
		RecordedAt: base.Add(2 * time.Minute),
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "examiner.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestOpenFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{tableResults, tableEvents, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestResultSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	in := sampleResult("att-1", "go-fundamentals", 80, true)
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if in.ID == 0 || in.Sequence == 0 {
		t.Errorf("save did not assign id/sequence: %+v", in)
	}

	got, err := repo.Get(ctx, "att-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ExamID != "go-fundamentals" || got.Percentage != 80 || !got.Passed {
		t.Errorf("got %+v", got)
	}
	if !got.StartedAt.Equal(base) || got.Elapsed() != 90*time.Second {
		t.Errorf("times = %v .. %v", got.StartedAt, got.CompletedAt)
	}
	if len(got.Answers) != 2 || got.Answers[3] != 2 {
		t.Errorf("answers = %v", got.Answers)
	}
	if len(got.Outcomes) != 2 || got.Outcomes[1].Answered() {
		t.Errorf("outcomes = %+v", got.Outcomes)
	}

	_, err = repo.Get(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestResultSaveRejectsDuplicateAttempt(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, sampleResult("att-1", "x", 60, false)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, sampleResult("att-1", "x", 60, false)); err == nil {
		t.Fatal("expected error saving the same attempt twice")
	}
}

func TestResultListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c", "d"} {
		exam := "go-fundamentals"
		if i%2 == 1 {
			exam = "unix-shell"
		}
		if err := repo.Save(ctx, sampleResult(id, exam, 20*i, i >= 3)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].AttemptID != "d" || all[3].AttemptID != "a" {
		t.Errorf("list order = %v", attemptIDs(all))
	}

	limited, err := repo.List(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}

	shell, err := repo.List(ctx, QueryOpts{ExamID: "unix-shell"})
	if err != nil {
		t.Fatalf("list exam: %v", err)
	}
	if got := attemptIDs(shell); len(got) != 2 || got[0] != "d" || got[1] != "b" {
		t.Errorf("unix-shell results = %v", got)
	}

	none, err := repo.List(ctx, QueryOpts{Participant: "grace"})
	if err != nil {
		t.Fatalf("list participant: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("results for grace = %d, want 0", len(none))
	}
}

func TestExamStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	timedOut := sampleResult("t", "go", 40, false)
	timedOut.Status = "timed_out"
	timedOut.CompletedAt = base.Add(time.Hour)
	for _, r := range []*ExamResult{
		sampleResult("p1", "go", 100, true),
		sampleResult("p2", "go", 70, true),
		timedOut,
		sampleResult("other", "shell", 0, false),
	} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	stats, err := repo.ExamStats(ctx, "go")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Attempts != 3 || stats.Passes != 2 || stats.TimedOut != 1 || stats.Best != 100 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Average != 70 {
		t.Errorf("average = %v, want 70", stats.Average)
	}
	if !stats.LastAttempt.Equal(base.Add(time.Hour)) {
		t.Errorf("last attempt = %v", stats.LastAttempt)
	}

	empty, err := repo.ExamStats(ctx, "never")
	if err != nil {
		t.Fatalf("stats empty: %v", err)
	}
	if empty.Attempts != 0 || empty.Average != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestDeleteAll(t *testing.T) {
	s := openTestStore(t)
	results := s.ResultRepo()
	events := s.EventRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := results.Save(ctx, sampleResult(id, "go", 50, false)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := events.AppendAttemptEvent(ctx, AttemptEventData{AttemptID: "a", ExamID: "go", Action: ActionStart, QuestionIndex: -1, OptionIndex: -1}); err != nil {
		t.Fatalf("append: %v", err)
	}

	n, err := results.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}

	left, _ := results.List(ctx, QueryOpts{})
	evs, _ := events.AttemptEvents(ctx, "a")
	if len(left) != 0 || len(evs) != 0 {
		t.Errorf("left %d results and %d events", len(left), len(evs))
	}
}

func TestAttemptEventsInSequenceOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	steps := []AttemptEventData{
		{AttemptID: "att", ExamID: "go", Action: ActionStart, QuestionIndex: -1, OptionIndex: -1, Timestamp: base},
		{AttemptID: "att", ExamID: "go", Action: ActionAnswer, QuestionIndex: 0, OptionIndex: 2, Timestamp: base.Add(time.Second)},
		{AttemptID: "other", ExamID: "go", Action: ActionStart, QuestionIndex: -1, OptionIndex: -1, Timestamp: base},
		{AttemptID: "att", ExamID: "go", Action: ActionNavigate, QuestionIndex: 3, OptionIndex: -1, Timestamp: base.Add(2 * time.Second)},
		{AttemptID: "att", ExamID: "go", Action: ActionTimeout, QuestionIndex: -1, OptionIndex: -1, Timestamp: base.Add(3 * time.Second)},
	}
	for _, e := range steps {
		if err := repo.AppendAttemptEvent(ctx, e); err != nil {
			t.Fatalf("append %s: %v", e.Action, err)
		}
	}

	got, err := repo.AttemptEvents(ctx, "att")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	want := []string{ActionStart, ActionAnswer, ActionNavigate, ActionTimeout}
	if len(got) != len(want) {
		t.Fatalf("events = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Action != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, e.Action, want[i])
		}
		if i > 0 && e.Sequence <= got[i-1].Sequence {
			t.Errorf("sequence not increasing at %d", i)
		}
	}
	if got[1].QuestionIndex != 0 || got[1].OptionIndex != 2 || !got[1].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("answer event = %+v", got[1])
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("EXAMINER_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "custom", "x.db") {
		t.Errorf("EXAMINER_DB: got %q, %v", p, err)
	}

	t.Setenv("EXAMINER_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "examiner", "examiner.db") {
		t.Errorf("XDG_DATA_HOME: got %q, %v", p, err)
	}
}

func attemptIDs(rs []ExamResult) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.AttemptID
	}
	return ids
}
