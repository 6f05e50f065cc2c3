// Package catalog provides content lookup for exams keyed by exam ID.
//
// Exams are JSON files. A handful ship embedded in the binary; more can be
// dropped into a directory, and a file there replaces a built-in exam with
// the same ID.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/examiner/internal/exam"
)

var (
	// ErrNotFound is returned by Lookup for an unknown exam ID.
	ErrNotFound = errors.New("exam not found")

	// ErrUnsupportedFormat is returned for files written for another major
	// version of the exam file format.
	ErrUnsupportedFormat = errors.New("unsupported exam file format")
)

//go:embed builtin/*.json
var builtinFS embed.FS

// file is the on-disk layout of an exam.
type file struct {
	FormatVersion string `json:"format_version"`
	exam.Definition
}

// Entry is one exam in the catalog.
type Entry struct {
	Definition    *exam.Definition
	FormatVersion string
	Source        string // file path, or "builtin:<name>"
	Builtin       bool
}

// Catalog is an immutable set of exams.
type Catalog struct {
	entries  map[string]Entry
	problems []error
}

// Parse decodes and fully validates one exam file.
func Parse(raw []byte) (*exam.Definition, string, error) {
	if err := validateDocument(raw); err != nil {
		return nil, "", fmt.Errorf("%w: %w", exam.ErrInvalidDefinition, err)
	}

	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, "", fmt.Errorf("%w: decode: %w", exam.ErrInvalidDefinition, err)
	}
	if err := checkFormatVersion(f.FormatVersion); err != nil {
		return nil, "", err
	}

	def := f.Definition
	if err := exam.Validate(&def); err != nil {
		return nil, "", err
	}
	return &def, f.FormatVersion, nil
}

// LoadFile reads and validates the exam at path.
func LoadFile(path string) (*exam.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exam file: %w", err)
	}
	def, _, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Builtin returns a catalog of the embedded exams only.
func Builtin() (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Entry)}
	if err := c.addBuiltins(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load returns the built-in exams merged with every *.json file in dir. A
// missing dir is not an error. Invalid user files are skipped, logged and
// reported by Problems.
func Load(dir string, log zerolog.Logger) (*Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan exams dir: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		e, err := readEntry(path)
		if err == nil {
			if prev, ok := c.entries[e.Definition.ID]; ok && !prev.Builtin {
				err = fmt.Errorf("duplicate exam id %q (also in %s)", e.Definition.ID, prev.Source)
			}
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)
			log.Warn().Err(err).Msg("skipping exam file")
			c.problems = append(c.problems, err)
			continue
		}
		if _, ok := c.entries[e.Definition.ID]; ok {
			log.Debug().Str("exam_id", e.Definition.ID).Str("path", path).Msg("user exam overrides built-in")
		}
		c.entries[e.Definition.ID] = e
	}

	log.Debug().Int("exams", len(c.entries)).Str("dir", dir).Msg("catalog loaded")
	return c, nil
}

func readEntry(path string) (Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	def, version, err := Parse(raw)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Definition: def, FormatVersion: version, Source: path}, nil
}

func (c *Catalog) addBuiltins() error {
	names, err := fs.Glob(builtinFS, "builtin/*.json")
	if err != nil {
		return fmt.Errorf("list built-in exams: %w", err)
	}
	for _, name := range names {
		raw, err := builtinFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read built-in exam %s: %w", name, err)
		}
		def, version, err := Parse(raw)
		if err != nil {
			return fmt.Errorf("built-in exam %s: %w", name, err)
		}
		c.entries[def.ID] = Entry{
			Definition:    def,
			FormatVersion: version,
			Source:        "builtin:" + strings.TrimPrefix(name, "builtin/"),
			Builtin:       true,
		}
	}
	return nil
}

// Lookup returns a private copy of the exam with the given ID.
func (c *Catalog) Lookup(id string) (*exam.Definition, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e.Definition.Clone(), nil
}

// Entry returns catalog metadata for id.
func (c *Catalog) Entry(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// List returns all entries sorted by exam ID.
func (c *Catalog) List() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Definition.ID < out[j].Definition.ID
	})
	return out
}

// Len returns the number of exams.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Problems returns the errors for user files that were skipped by Load.
func (c *Catalog) Problems() []error {
	return c.problems
}
