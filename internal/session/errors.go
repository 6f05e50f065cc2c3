package session

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for a question or option index outside the
	// definition. The caller may retry with a valid index.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNotActive is returned when an operation needs an attempt in progress.
	ErrNotActive = errors.New("attempt is not in progress")

	// ErrNotStarted is returned for any operation other than Begin on an
	// attempt that has not started. It wraps ErrNotActive.
	ErrNotStarted = fmt.Errorf("%w: not started", ErrNotActive)

	// ErrInvalidTransition guards the attempt state against illegal changes.
	// Seeing it from a Controller means a bug in the caller or the controller.
	ErrInvalidTransition = errors.New("invalid state transition")
)
