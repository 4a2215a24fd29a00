package watcher

import "context"

// Watcher monitors a drop folder and submits new media files as jobs
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// SubmitFunc receives the path of a newly dropped media file
type SubmitFunc func(ctx context.Context, filePath string) error
