package server

import (
	"net/http"

	"github.com/gabi0s/transcipt-video/internal/jobs"
)

// handleEvents streams job state changes over a websocket until the job
// reaches a terminal state or the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	// Subscribe before reading the snapshot so a transition published
	// between the two lands on the channel instead of being lost; the
	// snapshot is then never newer than the first queued event.
	events, cancel := s.bus.Subscribe(jobID)
	defer cancel()

	job, ok := s.lookup(w, r, jobID)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "Websocket upgrade failed for job %s: %v", job.ID, err)
		return
	}
	defer conn.Close()

	snapshot := jobs.Event{
		JobID:    job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Language: job.Language,
		Error:    job.Error,
	}
	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}
	if snapshot.Status.Terminal() {
		return
	}

	// Detect client disconnects; no inbound messages are expected.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Status.Terminal() {
				return
			}
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
