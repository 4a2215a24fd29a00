package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

type implRedisRegistry struct {
	client *redis.Client
	prefix string
}

// NewRedisRegistry creates a Registry backed by a Redis instance.
// Jobs survive process restarts for as long as Redis retains them.
// The single-writer-per-job discipline makes the read-modify-write
// updates below safe without transactions.
func NewRedisRegistry(client *redis.Client, prefix string) Registry {
	return &implRedisRegistry{
		client: client,
		prefix: prefix,
	}
}

func (r *implRedisRegistry) key(id string) string {
	return fmt.Sprintf("%s:job:%s", r.prefix, id)
}

func (r *implRedisRegistry) Create(ctx context.Context, job Job) error {
	job.Status = StatusQueued
	job.Progress = 0

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(job.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	if !ok {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	return nil
}

func (r *implRedisRegistry) Get(ctx context.Context, id string) (Job, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("load job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("unmarshal job: %w", err)
	}
	return job, nil
}

func (r *implRedisRegistry) MarkRunning(ctx context.Context, id string) error {
	return r.update(ctx, id, func(job *Job) error {
		if !validTransition(job.Status, StatusRunning) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, StatusRunning)
		}
		job.Status = StatusRunning
		return nil
	})
}

func (r *implRedisRegistry) SetProgress(ctx context.Context, id string, progress int) error {
	return r.update(ctx, id, func(job *Job) error {
		if progress > job.Progress {
			job.Progress = progress
		}
		return nil
	})
}

func (r *implRedisRegistry) Complete(ctx context.Context, id string, res Completion) error {
	return r.update(ctx, id, func(job *Job) error {
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

func (r *implRedisRegistry) Fail(ctx context.Context, id string, msg string) error {
	return r.update(ctx, id, func(job *Job) error {
		if !validTransition(job.Status, StatusError) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, StatusError)
		}
		job.Status = StatusError
		job.Error = msg
		return nil
	})
}

func (r *implRedisRegistry) update(ctx context.Context, id string, fn func(job *Job) error) error {
	job, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(&job); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.client.Set(ctx, r.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return nil
}
