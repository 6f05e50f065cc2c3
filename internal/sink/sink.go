// Package sink delivers finalized attempt records to persistence and
// reporting backends.
package sink

import (
	"context"
	"errors"

	"github.com/abhisek/examiner/internal/session"
	"github.com/abhisek/examiner/internal/store"
)

// Sink accepts a finalized record together with the participant identity.
type Sink interface {
	Publish(ctx context.Context, participant string, rec *session.Record) error
}

// Multi publishes to every sink in order and joins their errors. A failing
// sink does not stop later ones.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, participant string, rec *session.Record) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, participant, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every record.
type Discard struct{}

func (Discard) Publish(context.Context, string, *session.Record) error { return nil }

// ToResult converts a record into its stored form.
func ToResult(participant string, rec *session.Record) *store.ExamResult {
	return &store.ExamResult{
		AttemptID:    rec.AttemptID,
		ExamID:       rec.ExamID,
		ExamTitle:    rec.ExamTitle,
		Participant:  participant,
		Status:       rec.Status.String(),
		StartedAt:    rec.StartedAt,
		CompletedAt:  rec.CompletedAt,
		CorrectCount: rec.CorrectCount,
		Total:        rec.Total,
		Percentage:   rec.Percentage,
		Passed:       rec.Passed,
		Answers:      rec.Answers.Clone(),
		Outcomes:     rec.Outcomes,
	}
}
