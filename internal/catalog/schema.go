package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the exam file format major version this build reads.
const SupportedMajor = "v1"

//go:embed exam.schema.json
var schemaJSON []byte

const schemaURL = "schema://examiner/exam.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// examSchema returns the compiled exam file schema, compiling it on first use.
func examSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks raw JSON against the exam file schema.
func validateDocument(raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := examSchema()
	if err != nil {
		return fmt.Errorf("compile exam schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// checkFormatVersion accepts "1.2.0" and "v1.2.0" style versions whose major
// matches SupportedMajor.
func checkFormatVersion(v string) error {
	canonical := "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(canonical) {
		return fmt.Errorf("%w: format_version %q is not a semantic version", ErrUnsupportedFormat, v)
	}
	if major := semver.Major(canonical); major != SupportedMajor {
		return fmt.Errorf("%w: format_version %s, want %s.x", ErrUnsupportedFormat, v, SupportedMajor)
	}
	return nil
}
