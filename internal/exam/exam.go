// Package exam defines the immutable description of a multiple-choice exam.
package exam

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDefinition is returned when a definition cannot be administered.
var ErrInvalidDefinition = errors.New("invalid exam definition")

// Question is a single multiple-choice item.
type Question struct {
	ID      string   `json:"id" validate:"required"`
	Prompt  string   `json:"prompt" validate:"required"`
	Options []string `json:"options" validate:"min=2,dive,required"`
	Correct int      `json:"correct" validate:"gte=0"`
}

// MaxDurationSeconds is the longest time limit a time.Duration can hold.
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

// Definition is a complete exam: metadata, time limit and ordered questions.
type Definition struct {
	ID              string     `json:"id" validate:"required"`
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description,omitempty"`
	DurationSeconds int        `json:"duration_seconds" validate:"gt=0,lte=9223372036"`
	Questions       []Question `json:"questions" validate:"min=1,dive"`
}

// Duration returns the time limit.
func (d *Definition) Duration() time.Duration {
	if int64(d.DurationSeconds) > MaxDurationSeconds {
		return time.Duration(MaxDurationSeconds) * time.Second
	}
	return time.Duration(d.DurationSeconds) * time.Second
}

// QuestionCount returns the number of questions.
func (d *Definition) QuestionCount() int {
	return len(d.Questions)
}

// Clone returns a deep copy, so an attempt can hold a definition nobody else
// can modify.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Questions = make([]Question, len(d.Questions))
	for i, q := range d.Questions {
		q.Options = append([]string(nil), q.Options...)
		c.Questions[i] = q
	}
	return &c
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(questionStructLevel, Question{})
	return v
}

// questionStructLevel enforces that the correct option index is within the
// option bounds.
func questionStructLevel(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)
	if q.Correct >= len(q.Options) {
		sl.ReportError(q.Correct, "correct", "Correct", "correct_in_range", fmt.Sprint(len(q.Options)))
	}
}

// Validate checks every structural rule of a definition and returns a single
// error wrapping ErrInvalidDefinition that lists all problems found.
func Validate(d *Definition) error {
	if d == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}

	var problems []string

	if err := validate.Struct(d); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
		for _, fe := range ve {
			problems = append(problems, describe(fe))
		}
	}

	seen := make(map[string]bool, len(d.Questions))
	for i, q := range d.Questions {
		if q.ID == "" {
			continue
		}
		if seen[q.ID] {
			problems = append(problems, fmt.Sprintf("questions[%d]: duplicate question id %q", i, q.ID))
		}
		seen[q.ID] = true
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidDefinition, strings.Join(problems, "\n  "))
	}
	return nil
}

// describe renders a validator field error without the root struct name.
func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", ns)
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s, got %v", ns, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s, got %v", ns, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s: must be at most %s, got %v", ns, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s: needs at least %s entries", ns, fe.Param())
	case "correct_in_range":
		return fmt.Sprintf("%s: index %v is outside the %s options", ns, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed %q check", ns, fe.Tag())
	}
}
