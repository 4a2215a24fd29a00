package source

import (
	"context"
	"errors"
)

// ErrFileNotFound is returned when a local reference does not exist
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat is returned for extensions outside the supported set
var ErrUnsupportedFormat = errors.New("unsupported media format")

// ErrSourceUnavailable is returned when a remote fetch fails
var ErrSourceUnavailable = errors.New("source unavailable")

// Resolved is a local media file ready for processing
type Resolved struct {
	Path         string
	Label        string  // display name of the input
	DurationSecs float64 // 0 when the duration could not be determined
	Downloaded   bool    // true when Path was fetched and belongs to the job
}

// Resolver turns a user-provided reference (local path or URL) into a
// concrete local media file plus a best-effort total duration.
type Resolver interface {
	Resolve(ctx context.Context, ref, workDir string) (Resolved, error)
}

// ProgressFunc receives incremental download progress in bytes.
// total is 0 when the remote size is unknown.
type ProgressFunc func(downloaded, total int64)

// Fetcher resolves a URL into a local media file, reporting byte-level
// download progress along the way.
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir string, onProgress ProgressFunc) (string, error)
}
