package pipeline

import (
	"context"
	"sync"

	"github.com/gabi0s/transcipt-video/internal/logger"
)

// Manager schedules submitted jobs onto background workers. Concurrency
// is bounded by a counting semaphore; each job is claimed by exactly one
// worker and owns a cancelable context for cooperative cancellation.
type Manager struct {
	pipeline Pipeline
	logger   logger.Logger
	sem      chan struct{}

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager creates a Manager running at most maxConcurrent jobs at once
func NewManager(p Pipeline, maxConcurrent int, log logger.Logger) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Manager{
		pipeline: p,
		logger:   log,
		sem:      make(chan struct{}, maxConcurrent),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Submit schedules a job for background execution and returns
// immediately. ctx bounds the whole job, including time spent waiting
// for a worker slot.
func (m *Manager) Submit(ctx context.Context, req Request) {
	jobCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.cancels[req.JobID] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.release(req.JobID)

		// A job already canceled never claims a worker slot, even when
		// one happens to be free.
		if jobCtx.Err() == nil {
			select {
			case m.sem <- struct{}{}:
				defer func() { <-m.sem }()
			case <-jobCtx.Done():
				// Canceled while queued; the pipeline still runs once
				// to move the job into its terminal error state.
			}
		}

		m.pipeline.Run(jobCtx, req)
	}()
}

// Cancel signals a queued or running job to stop. It reports whether a
// job with that identifier was active.
func (m *Manager) Cancel(jobID string) bool {
	m.mu.Lock()
	cancel, ok := m.cancels[jobID]
	m.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

// Wait blocks until all submitted jobs reach a terminal state
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) release(jobID string) {
	m.mu.Lock()
	if cancel, ok := m.cancels[jobID]; ok {
		delete(m.cancels, jobID)
		cancel()
	}
	m.mu.Unlock()
}
