package jobs

import (
	"context"
	"fmt"
	"sync"
)

type implMemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewMemoryRegistry creates the in-process Registry backend
func NewMemoryRegistry() Registry {
	return &implMemoryRegistry{
		jobs: make(map[string]Job),
	}
}

func (r *implMemoryRegistry) Create(ctx context.Context, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}

	job.Status = StatusQueued
	job.Progress = 0
	r.jobs[job.ID] = job
	return nil
}

func (r *implMemoryRegistry) Get(ctx context.Context, id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *implMemoryRegistry) MarkRunning(ctx context.Context, id string) error {
	return r.update(id, func(job *Job) error {
		if !validTransition(job.Status, StatusRunning) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, StatusRunning)
		}
		job.Status = StatusRunning
		return nil
	})
}

func (r *implMemoryRegistry) SetProgress(ctx context.Context, id string, progress int) error {
	return r.update(id, func(job *Job) error {
		if progress > job.Progress {
			job.Progress = progress
		}
		return nil
	})
}

func (r *implMemoryRegistry) Complete(ctx context.Context, id string, res Completion) error {
	return r.update(id, func(job *Job) error {
		if !validTransition(job.Status, StatusDone) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, StatusDone)
		}
		job.Status = StatusDone
		job.Progress = 100
		job.Artifacts = res.Artifacts
		job.Language = res.Language
		job.LanguageConfidence = res.LanguageConfidence
		return nil
	})
}

func (r *implMemoryRegistry) Fail(ctx context.Context, id string, msg string) error {
	return r.update(id, func(job *Job) error {
		if !validTransition(job.Status, StatusError) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, StatusError)
		}
		job.Status = StatusError
		job.Error = msg
		return nil
	})
}

// update applies a mutation under the write lock
func (r *implMemoryRegistry) update(id string, fn func(job *Job) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if err := fn(&job); err != nil {
		return err
	}
	r.jobs[id] = job
	return nil
}
