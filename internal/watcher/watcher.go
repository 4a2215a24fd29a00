package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/internal/source"
)

// settleDelay gives the producing process time to finish writing the
// file before it is submitted.
const settleDelay = 500 * time.Millisecond

type implWatcher struct {
	watchDir string
	submit   SubmitFunc
	logger   logger.Logger
	watcher  *fsnotify.Watcher
}

// Start begins monitoring the intake directory for new media files
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Drop-folder intake started: %s", w.watchDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Drop-folder intake stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !source.SupportedExtension(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-media file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New media detected: %s", event.Name)
			time.Sleep(settleDelay)

			if err := w.submit(ctx, event.Name); err != nil {
				w.logger.Error(ctx, "Failed to submit %s: %v", event.Name, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
