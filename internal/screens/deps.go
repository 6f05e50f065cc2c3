// Package screens holds what the interactive screens share.
package screens

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/examiner/internal/catalog"
	"github.com/abhisek/examiner/internal/clock"
	"github.com/abhisek/examiner/internal/countdown"
	"github.com/abhisek/examiner/internal/sink"
	"github.com/abhisek/examiner/internal/store"
)

// Deps are the services injected into every screen. Nil repos disable the
// features that need them.
type Deps struct {
	Catalog     *catalog.Catalog
	Results     store.ResultRepo
	Events      store.EventRepo
	Sink        sink.Sink
	Participant string
	Clock       clock.Clock
	Log         zerolog.Logger
	Tick        time.Duration

	// ExitAfterExam quits the program when the result screen is closed,
	// for runs that go straight into one exam.
	ExitAfterExam bool
}

// WithDefaults fills unset optional fields.
func (d Deps) WithDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Sink == nil {
		d.Sink = sink.Discard{}
	}
	if d.Tick <= 0 {
		d.Tick = countdown.DefaultCadence
	}
	return d
}
