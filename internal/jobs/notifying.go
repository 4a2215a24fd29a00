package jobs

import "context"

type implNotifyingRegistry struct {
	inner Registry
	bus   *Bus
}

// NewNotifyingRegistry wraps a Registry so every successful mutation is
// published on the event bus for streaming status consumers.
func NewNotifyingRegistry(inner Registry, bus *Bus) Registry {
	return &implNotifyingRegistry{
		inner: inner,
		bus:   bus,
	}
}

func (r *implNotifyingRegistry) Create(ctx context.Context, job Job) error {
	if err := r.inner.Create(ctx, job); err != nil {
		return err
	}
	r.publish(ctx, job.ID)
	return nil
}

func (r *implNotifyingRegistry) Get(ctx context.Context, id string) (Job, error) {
	return r.inner.Get(ctx, id)
}

func (r *implNotifyingRegistry) MarkRunning(ctx context.Context, id string) error {
	if err := r.inner.MarkRunning(ctx, id); err != nil {
		return err
	}
	r.publish(ctx, id)
	return nil
}

func (r *implNotifyingRegistry) SetProgress(ctx context.Context, id string, progress int) error {
	if err := r.inner.SetProgress(ctx, id, progress); err != nil {
		return err
	}
	r.publish(ctx, id)
	return nil
}

func (r *implNotifyingRegistry) Complete(ctx context.Context, id string, res Completion) error {
	if err := r.inner.Complete(ctx, id, res); err != nil {
		return err
	}
	r.publish(ctx, id)
	return nil
}

func (r *implNotifyingRegistry) Fail(ctx context.Context, id string, msg string) error {
	if err := r.inner.Fail(ctx, id, msg); err != nil {
		return err
	}
	r.publish(ctx, id)
	return nil
}

// publish reads the post-mutation snapshot and emits it as an event
func (r *implNotifyingRegistry) publish(ctx context.Context, id string) {
	job, err := r.inner.Get(ctx, id)
	if err != nil {
		return
	}
	r.bus.Publish(Event{
		JobID:    job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Language: job.Language,
		Error:    job.Error,
	})
}
