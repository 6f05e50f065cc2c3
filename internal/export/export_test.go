package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/examiner/internal/scoring"
	"github.com/abhisek/examiner/internal/store"
)

func sampleResults() []store.ExamResult {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []store.ExamResult{
		{
			AttemptID: "att-1", ExamID: "go", ExamTitle: "Go", Participant: "ada",
			Status: "completed", StartedAt: start, CompletedAt: start.Add(95 * time.Second),
			CorrectCount: 2, Total: 3, Percentage: 67, Passed: false,
			Outcomes: []scoring.Outcome{
				{QuestionID: "q1", Selected: 1, Correct: 1, IsCorrect: true},
				{QuestionID: "q2", Selected: 0, Correct: 0, IsCorrect: true},
				{QuestionID: "q3", Selected: scoring.Unanswered, Correct: 2},
			},
		},
		{
			AttemptID: "att-2", ExamID: "shell", ExamTitle: "Shell", Participant: "grace",
			Status: "timed_out", StartedAt: start, CompletedAt: start.Add(time.Minute),
			CorrectCount: 1, Total: 1, Percentage: 100, Passed: true,
			Outcomes: []scoring.Outcome{
				{QuestionID: "s1", Selected: 3, Correct: 3, IsCorrect: true},
			},
		},
	}
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteResults(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetResults, SheetOutcomes}, f.GetSheetList())

	rows, err := f.GetRows(SheetResults)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Attempt", rows[0][0])
	assert.Equal(t, []string{"att-1", "go", "Go", "ada", "completed", "2025-03-01 09:00:00", "2025-03-01 09:01:35", "95", "2", "3", "67", "fail"}, rows[1])
	assert.Equal(t, "timed_out", rows[2][4])
	assert.Equal(t, "pass", rows[2][11])

	outcomes, err := f.GetRows(SheetOutcomes)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)
	assert.Equal(t, []string{"att-1", "go", "q3", "", "2", "unanswered"}, outcomes[3])
	assert.Equal(t, "correct", outcomes[4][5])
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetResults)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
