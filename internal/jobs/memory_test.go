package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestJob(id string) Job {
	return Job{
		ID:          id,
		SourceLabel: "lecture.mp4",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMemoryRegistryCreateGet(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	if err := reg.Create(ctx, newTestJob("a1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	job, err := reg.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if job.Status != StatusQueued {
		t.Errorf("Status = %q, want %q", job.Status, StatusQueued)
	}
	if job.Progress != 0 {
		t.Errorf("Progress = %d, want 0", job.Progress)
	}

	if err := reg.Create(ctx, newTestJob("a1")); err == nil {
		t.Error("Create() expected error for duplicate id")
	}
}

func TestMemoryRegistryNotFound(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	if _, err := reg.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := reg.MarkRunning(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRunning() error = %v, want ErrNotFound", err)
	}
	if err := reg.SetProgress(ctx, "missing", 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetProgress() error = %v, want ErrNotFound", err)
	}
	if err := reg.Fail(ctx, "missing", "boom"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fail() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryRegistryTransitions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(ctx context.Context, reg Registry) error
		mutate  func(ctx context.Context, reg Registry) error
		wantErr bool
	}{
		{
			name:    "queued to running",
			prepare: func(ctx context.Context, reg Registry) error { return nil },
			mutate:  func(ctx context.Context, reg Registry) error { return reg.MarkRunning(ctx, "j") },
		},
		{
			name:    "queued to error",
			prepare: func(ctx context.Context, reg Registry) error { return nil },
			mutate:  func(ctx context.Context, reg Registry) error { return reg.Fail(ctx, "j", "rejected") },
		},
		{
			name:    "queued to done is invalid",
			prepare: func(ctx context.Context, reg Registry) error { return nil },
			mutate:  func(ctx context.Context, reg Registry) error { return reg.Complete(ctx, "j", Completion{}) },
			wantErr: true,
		},
		{
			name:    "running to done",
			prepare: func(ctx context.Context, reg Registry) error { return reg.MarkRunning(ctx, "j") },
			mutate:  func(ctx context.Context, reg Registry) error { return reg.Complete(ctx, "j", Completion{}) },
		},
		{
			name:    "running to error",
			prepare: func(ctx context.Context, reg Registry) error { return reg.MarkRunning(ctx, "j") },
			mutate:  func(ctx context.Context, reg Registry) error { return reg.Fail(ctx, "j", "boom") },
		},
		{
			name: "done is terminal",
			prepare: func(ctx context.Context, reg Registry) error {
				if err := reg.MarkRunning(ctx, "j"); err != nil {
					return err
				}
				return reg.Complete(ctx, "j", Completion{})
			},
			mutate:  func(ctx context.Context, reg Registry) error { return reg.MarkRunning(ctx, "j") },
			wantErr: true,
		},
		{
			name: "error is terminal",
			prepare: func(ctx context.Context, reg Registry) error {
				return reg.Fail(ctx, "j", "boom")
			},
			mutate:  func(ctx context.Context, reg Registry) error { return reg.Fail(ctx, "j", "again") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			reg := NewMemoryRegistry()
			if err := reg.Create(ctx, newTestJob("j")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if err := tt.prepare(ctx, reg); err != nil {
				t.Fatalf("prepare error = %v", err)
			}

			err := tt.mutate(ctx, reg)
			if (err != nil) != tt.wantErr {
				t.Errorf("mutation error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestMemoryRegistryProgressMonotonic(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	if err := reg.Create(ctx, newTestJob("j")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := reg.MarkRunning(ctx, "j"); err != nil {
		t.Fatalf("MarkRunning() error = %v", err)
	}

	steps := []struct {
		set  int
		want int
	}{
		{5, 5},
		{15, 15},
		{15, 15},
		{10, 15},
		{25, 25},
		{-1, 25},
	}
	for _, step := range steps {
		if err := reg.SetProgress(ctx, "j", step.set); err != nil {
			t.Fatalf("SetProgress(%d) error = %v", step.set, err)
		}
		job, err := reg.Get(ctx, "j")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if job.Progress != step.want {
			t.Errorf("after SetProgress(%d): Progress = %d, want %d", step.set, job.Progress, step.want)
		}
	}
}

func TestMemoryRegistryComplete(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	if err := reg.Create(ctx, newTestJob("j")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := reg.MarkRunning(ctx, "j"); err != nil {
		t.Fatalf("MarkRunning() error = %v", err)
	}

	res := Completion{
		Artifacts: Artifacts{
			TextPath:     "out/j.txt",
			SubtitlePath: "out/j.srt",
		},
		Language:           "en",
		LanguageConfidence: 0.98,
	}
	if err := reg.Complete(ctx, "j", res); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	job, err := reg.Get(ctx, "j")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if job.Status != StatusDone {
		t.Errorf("Status = %q, want %q", job.Status, StatusDone)
	}
	if job.Progress != 100 {
		t.Errorf("Progress = %d, want 100", job.Progress)
	}
	if job.Artifacts != res.Artifacts {
		t.Errorf("Artifacts = %+v, want %+v", job.Artifacts, res.Artifacts)
	}
	if job.Language != "en" {
		t.Errorf("Language = %q, want en", job.Language)
	}
}

func TestMemoryRegistryConcurrentJobs(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		id := fmt.Sprintf("job-%d", i)
		if err := reg.Create(ctx, newTestJob(id)); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.MarkRunning(ctx, id); err != nil {
				t.Errorf("MarkRunning(%s) error = %v", id, err)
				return
			}
			for p := 5; p <= 95; p += 10 {
				if err := reg.SetProgress(ctx, id, p); err != nil {
					t.Errorf("SetProgress(%s, %d) error = %v", id, p, err)
					return
				}
			}
			if err := reg.Complete(ctx, id, Completion{Language: "en"}); err != nil {
				t.Errorf("Complete(%s) error = %v", id, err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		id := fmt.Sprintf("job-%d", i)
		job, err := reg.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if job.Status != StatusDone || job.Progress != 100 {
			t.Errorf("job %s = %s/%d, want done/100", id, job.Status, job.Progress)
		}
	}
}
