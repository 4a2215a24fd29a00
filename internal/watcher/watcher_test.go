package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gabi0s/transcipt-video/internal/logger"
)

func TestWatcherSubmitsNewMedia(t *testing.T) {
	dir := t.TempDir()
	submitted := make(chan string, 4)

	w, err := New(dir, func(ctx context.Context, path string) error {
		submitted <- path
		return nil
	}, logger.NewWithWriter("error", io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watch loop a moment before producing events.
	time.Sleep(50 * time.Millisecond)

	ignored := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(ignored, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	media := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(media, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case path := <-submitted:
		if path != media {
			t.Errorf("submitted %q, want %q", path, media)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("media file was never submitted")
	}

	select {
	case path := <-submitted:
		t.Errorf("non-media file %q was submitted", path)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), nil, logger.NewWithWriter("error", io.Discard))
	if err == nil {
		t.Error("New() expected error for a missing directory")
	}
}
