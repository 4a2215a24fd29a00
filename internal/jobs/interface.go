package jobs

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a job identifier is unknown
var ErrNotFound = errors.New("job not found")

// ErrInvalidTransition is returned for a disallowed status change
var ErrInvalidTransition = errors.New("invalid job transition")

// Registry tracks jobs by identifier. Each job's mutable fields are
// written only by the single worker owning that job; reads return
// consistent snapshots and may happen concurrently.
type Registry interface {
	// Create registers a new job in queued state.
	Create(ctx context.Context, job Job) error

	// Get returns a snapshot of the job, or ErrNotFound.
	Get(ctx context.Context, id string) (Job, error)

	// MarkRunning moves a queued job to running.
	MarkRunning(ctx context.Context, id string) error

	// SetProgress raises the job's progress. Values that do not exceed
	// the current progress are ignored so readers never observe a
	// regression.
	SetProgress(ctx context.Context, id string, progress int) error

	// Complete moves a running job to done with progress 100 and
	// attaches artifacts and the detected language.
	Complete(ctx context.Context, id string, res Completion) error

	// Fail moves a job to error with a descriptive message.
	Fail(ctx context.Context, id string, msg string) error
}
