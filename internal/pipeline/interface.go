package pipeline

import "context"

// Formats selects which output artifacts a job produces
type Formats struct {
	Text      bool
	Subtitles bool
}

// Request describes one transcription job to execute
type Request struct {
	JobID       string
	Source      string // local media path or remote URL
	SourceLabel string
	Model       string // tiny, base, small, medium, large-v3
	Language    string // ISO code, empty for auto-detect
	VADFilter   bool
	Formats     Formats
}

// Pipeline drives one job from running to a terminal state. Run never
// returns an error: every failure is converted into the job's terminal
// error status in the registry.
type Pipeline interface {
	Run(ctx context.Context, req Request)
}
