package summarizer

import "context"

// Summarizer turns a finished transcript into summary artifacts.
// Summaries are a best-effort enrichment: callers treat failures as
// warnings, never as job failures.
type Summarizer interface {
	// Summarize writes <base>.md and <base>.docx next to basePath
	// (basePath is the artifact path without extension) and returns
	// the two produced paths.
	Summarize(ctx context.Context, title, transcript, basePath string) (string, string, error)
}
