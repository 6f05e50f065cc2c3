package sink

import (
	"context"
	"fmt"

	"github.com/abhisek/examiner/internal/session"
	"github.com/abhisek/examiner/internal/store"
)

// StoreSink saves records to the local result store.
type StoreSink struct {
	repo store.ResultRepo
}

func NewStoreSink(repo store.ResultRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Publish(ctx context.Context, participant string, rec *session.Record) error {
	if err := s.repo.Save(ctx, ToResult(participant, rec)); err != nil {
		return fmt.Errorf("store sink: %w", err)
	}
	return nil
}
