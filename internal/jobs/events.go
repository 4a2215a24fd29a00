package jobs

import (
	"sync"
	"time"
)

// Event is one observable change in a job's state
type Event struct {
	JobID     string    `json:"job_id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Language  string    `json:"language,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus fans job events out to per-job subscribers. Slow subscribers
// miss intermediate events rather than blocking the publishing worker.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan Event
	next int
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[int]chan Event),
	}
}

// Subscribe registers interest in one job's events. The returned cancel
// function must be called to release the subscription.
func (b *Bus) Subscribe(jobID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	token := b.next
	ch := make(chan Event, 16)

	if b.subs[jobID] == nil {
		b.subs[jobID] = make(map[int]chan Event)
	}
	b.subs[jobID][token] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[jobID]; ok {
			if sub, ok := set[token]; ok {
				delete(set, token)
				close(sub)
			}
			if len(set) == 0 {
				delete(b.subs, jobID)
			}
		}
	}

	return ch, cancel
}

// Publish delivers an event to all subscribers of its job
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[event.JobID] {
		select {
		case ch <- event:
		default:
		}
	}
}
