package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/gabi0s/transcipt-video/internal/logger"
)

// New creates a Watcher over the given intake directory
func New(watchDir string, submit SubmitFunc, log logger.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(watchDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		watchDir: watchDir,
		submit:   submit,
		logger:   log,
		watcher:  fsw,
	}, nil
}
