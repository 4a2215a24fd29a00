package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/pkg/executor"
)

type fakeExecutor struct {
	output string
	err    error

	lastName string
	lastArgs []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.lastName = name
	f.lastArgs = args
	return f.output, f.err
}

func (f *fakeExecutor) Start(ctx context.Context, name string, args ...string) (executor.Process, error) {
	return nil, errors.New("not implemented")
}

func newTestResolver(exec *fakeExecutor) Resolver {
	cfg := config.FFmpegConfig{BinaryPath: "ffmpeg", ProbePath: "ffprobe"}
	return New(cfg, nil, exec, logger.NewWithWriter("error", io.Discard))
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"http://example.com/a.mp4", true},
		{"https://example.com/watch?v=x", true},
		{"/data/uploads/a.mp4", false},
		{"a.mp4", false},
		{"ftp://example.com/a.mp4", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.ref); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.mp4", true},
		{"a.MKV", true},
		{"dir/a.flac", true},
		{"a.webm", true},
		{"a.txt", false},
		{"a", false},
		{"a.mp4.tmp", false},
	}

	for _, tt := range tests {
		if got := SupportedExtension(tt.path); got != tt.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveLocalMissingFile(t *testing.T) {
	r := newTestResolver(&fakeExecutor{})

	_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), "")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Resolve() error = %v, want ErrFileNotFound", err)
	}
}

func TestResolveLocalDirectory(t *testing.T) {
	r := newTestResolver(&fakeExecutor{})

	_, err := r.Resolve(context.Background(), t.TempDir(), "")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Resolve() error = %v, want ErrFileNotFound", err)
	}
}

func TestResolveLocalUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	r := newTestResolver(&fakeExecutor{})
	_, err := r.Resolve(context.Background(), path, "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Resolve() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestResolveLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	exec := &fakeExecutor{output: "123.45\n"}
	r := newTestResolver(exec)

	resolved, err := r.Resolve(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Path != path {
		t.Errorf("Path = %q, want %q", resolved.Path, path)
	}
	if resolved.Label != "talk.mp4" {
		t.Errorf("Label = %q, want talk.mp4", resolved.Label)
	}
	if resolved.DurationSecs != 123.45 {
		t.Errorf("DurationSecs = %v, want 123.45", resolved.DurationSecs)
	}
	if resolved.Downloaded {
		t.Error("Downloaded = true for a local file")
	}
	if exec.lastName != "ffprobe" {
		t.Errorf("probe binary = %q, want ffprobe", exec.lastName)
	}
}

func TestResolveLocalProbeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"probe error", &fakeExecutor{err: errors.New("exit status 1")}},
		{"unparseable output", &fakeExecutor{output: "N/A\n"}},
		{"negative duration", &fakeExecutor{output: "-3\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.exec)
			resolved, err := r.Resolve(context.Background(), path, "")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if resolved.DurationSecs != 0 {
				t.Errorf("DurationSecs = %v, want 0 on probe failure", resolved.DurationSecs)
			}
		})
	}
}

type fakeFetcher struct {
	path string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, destDir string, onProgress ProgressFunc) (string, error) {
	return f.path, f.err
}

func TestResolveRemote(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "episode.m4a")
	if err := os.WriteFile(media, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := config.FFmpegConfig{ProbePath: "ffprobe"}
	r := New(cfg, &fakeFetcher{path: media}, &fakeExecutor{output: "60\n"}, logger.NewWithWriter("error", io.Discard))

	resolved, err := r.Resolve(context.Background(), "https://example.com/episode", dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Path != media {
		t.Errorf("Path = %q, want %q", resolved.Path, media)
	}
	if !resolved.Downloaded {
		t.Error("Downloaded = false for a fetched file")
	}
	if resolved.DurationSecs != 60 {
		t.Errorf("DurationSecs = %v, want 60", resolved.DurationSecs)
	}
}

func TestResolveRemoteUnavailable(t *testing.T) {
	cfg := config.FFmpegConfig{ProbePath: "ffprobe"}
	r := New(cfg, &fakeFetcher{err: errors.New("HTTP 403")}, &fakeExecutor{}, logger.NewWithWriter("error", io.Discard))

	_, err := r.Resolve(context.Background(), "https://example.com/gone", t.TempDir())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Resolve() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name           string
		line           string
		wantDownloaded int64
		wantTotal      int64
		wantOK         bool
	}{
		{"normal", "1048576/5242880", 1048576, 5242880, true},
		{"unknown total", "1048576/NA", 1048576, 0, true},
		{"trailing whitespace", " 10/20 \n", 10, 20, true},
		{"not a progress line", "[download] Destination: a.m4a", 0, 0, false},
		{"empty", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloaded, total, ok := parseProgressLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseProgressLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if downloaded != tt.wantDownloaded || total != tt.wantTotal {
				t.Errorf("parseProgressLine(%q) = %d/%d, want %d/%d",
					tt.line, downloaded, total, tt.wantDownloaded, tt.wantTotal)
			}
		})
	}
}

func TestFindDownloadedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip.m4a.part"), []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := findDownloadedFile(dir); err == nil {
		t.Error("findDownloadedFile() expected error with only a partial file")
	}

	if err := os.WriteFile(filepath.Join(dir, "clip.m4a"), []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	path, err := findDownloadedFile(dir)
	if err != nil {
		t.Fatalf("findDownloadedFile() error = %v", err)
	}
	if filepath.Base(path) != "clip.m4a" {
		t.Errorf("findDownloadedFile() = %q, want clip.m4a", path)
	}
}
