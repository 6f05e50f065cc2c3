package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examiner/internal/exam"
)

const validExam = `{
  "format_version": "1.0.0",
  "id": "sample",
  "title": "Sample",
  "duration_seconds": 60,
  "questions": [
    {"id": "q1", "prompt": "Pick b", "options": ["a", "b"], "correct": 1}
  ]
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBuiltinExamsAreValid(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	require.GreaterOrEqual(t, c.Len(), 3)

	for _, e := range c.List() {
		assert.True(t, e.Builtin)
		assert.NoError(t, exam.Validate(e.Definition), e.Definition.ID)
	}
}

func TestListSortedByID(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	entries := c.List()
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Definition.ID, entries[i].Definition.ID)
	}
}

func TestLookup(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	def, err := c.Lookup("go-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", def.Title)

	def.Questions[0].Correct = 3
	again, err := c.Lookup("go-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Questions[0].Correct, "Lookup must return a copy")

	_, err = c.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"valid", validExam, nil},
		{"v prefix", `{"format_version":"v1.4.2","id":"s","title":"S","duration_seconds":5,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, nil},
		{"not json", `{`, exam.ErrInvalidDefinition},
		{"missing title", `{"format_version":"1.0.0","id":"s","duration_seconds":5,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, exam.ErrInvalidDefinition},
		{"unknown field", `{"format_version":"1.0.0","id":"s","title":"S","duration_seconds":5,"shuffle":true,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, exam.ErrInvalidDefinition},
		{"zero duration", `{"format_version":"1.0.0","id":"s","title":"S","duration_seconds":0,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, exam.ErrInvalidDefinition},
		{"duration beyond time.Duration", `{"format_version":"1.0.0","id":"s","title":"S","duration_seconds":10000000000,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, exam.ErrInvalidDefinition},
		{"correct out of range", `{"format_version":"1.0.0","id":"s","title":"S","duration_seconds":5,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":2}]}`, exam.ErrInvalidDefinition},
		{"duplicate question ids", `{"format_version":"1.0.0","id":"s","title":"S","duration_seconds":5,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0},{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, exam.ErrInvalidDefinition},
		{"major 2", `{"format_version":"2.0.0","id":"s","title":"S","duration_seconds":5,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, ErrUnsupportedFormat},
		{"not semver", `{"format_version":"latest","id":"s","title":"S","duration_seconds":5,"questions":[{"id":"q","prompt":"p","options":["a","b"],"correct":0}]}`, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, _, err := Parse([]byte(tt.body))
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, def)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadMergesUserExams(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.json", validExam)
	writeFile(t, dir, "override.json", `{
	  "format_version": "1.0.0",
	  "id": "unix-shell",
	  "title": "My Shell Quiz",
	  "duration_seconds": 30,
	  "questions": [{"id": "q1", "prompt": "p", "options": ["a", "b"], "correct": 0}]
	}`)
	writeFile(t, dir, "broken.json", `{"format_version": "1.0.0"}`)
	writeFile(t, dir, "notes.txt", "ignored")

	builtin, err := Builtin()
	require.NoError(t, err)

	c, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, builtin.Len()+1, c.Len())

	e, ok := c.Entry("unix-shell")
	require.True(t, ok)
	assert.False(t, e.Builtin)
	assert.Equal(t, "My Shell Quiz", e.Definition.Title)

	_, err = c.Lookup("sample")
	assert.NoError(t, err)

	require.Len(t, c.Problems(), 1)
	assert.Contains(t, c.Problems()[0].Error(), "broken.json")
}

func TestLoadRejectsDuplicateUserIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", validExam)
	writeFile(t, dir, "b.json", validExam)

	c, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)

	e, ok := c.Entry("sample")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a.json"), e.Source)
	require.Len(t, c.Problems(), 1)
	assert.Contains(t, c.Problems()[0].Error(), "duplicate exam id")
}

func TestLoadMissingDir(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, c.Problems())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.json", validExam)
	def, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", def.ID)
	assert.Equal(t, 1, def.QuestionCount())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
