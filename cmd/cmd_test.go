package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examiner/internal/scoring"
	"github.com/abhisek/examiner/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// seedDB creates a database holding one finished attempt of a built-in exam.
func seedDB(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "examiner.db")

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, st.ResultRepo().Save(ctx, &store.ExamResult{
		AttemptID: "attempt-1", ExamID: "unix-shell", ExamTitle: "Unix Shell",
		Participant: "ada", Status: "timed_out",
		StartedAt: at, CompletedAt: at.Add(3 * time.Minute),
		CorrectCount: 1, Total: 3, Percentage: 33,
		Answers: map[int]int{0: 1},
		Outcomes: []scoring.Outcome{
			{QuestionID: "x", Selected: 1, Correct: 1, IsCorrect: true},
			{QuestionID: "y", Selected: scoring.Unanswered, Correct: 0},
			{QuestionID: "z", Selected: scoring.Unanswered, Correct: 2},
		},
		RecordedAt: at.Add(3 * time.Minute),
	}))
	require.NoError(t, st.EventRepo().AppendAttemptEvent(ctx, store.AttemptEventData{
		AttemptID: "attempt-1", ExamID: "unix-shell", Action: store.ActionStart,
		QuestionIndex: -1, OptionIndex: -1, Timestamp: at,
	}))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "examiner")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
  "format_version": "1.0.0",
  "id": "tiny",
  "title": "Tiny",
  "duration_seconds": 30,
  "questions": [{"id": "q1", "prompt": "Yes?", "options": ["yes", "no"], "correct": 0}]
}`), 0o644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": "tiny"}`), 0o644))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    "+good)

	out, err = execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL  "+bad)
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestExamsListsBuiltins(t *testing.T) {
	db := seedDB(t)
	out, err := execute(t, "exams", "--db", db, "--exams", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "go-fundamentals")
	assert.Contains(t, out, "built-in")
}

func TestHistoryShowStats(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "attempt-1")
	assert.Contains(t, out, "33%")

	out, err = execute(t, "show", "attempt-1", "--db", db, "--events")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "timed_out")
	assert.Contains(t, out, store.ActionStart)

	out, err = execute(t, "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "unix-shell")

	_, err = execute(t, "show", "missing", "--db", db)
	assert.Error(t, err)
}

func TestExportAndReset(t *testing.T) {
	db := seedDB(t)
	file := filepath.Join(t.TempDir(), "results.xlsx")

	out, err := execute(t, "export", file, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 result(s)")
	_, err = os.Stat(file)
	assert.NoError(t, err)

	out, err = execute(t, "reset", "--db", db, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 result(s)")
	resetCmd.Flags().Set("yes", "false")

	_, err = execute(t, "reset", "--db", db)
	assert.Error(t, err)
}
