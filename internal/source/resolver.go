package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// supportedExtensions is the fixed set of accepted media containers
var supportedExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".webm": true,
}

// SupportedExtension reports whether a path carries an accepted
// media container extension
func SupportedExtension(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsURL reports whether a reference is a remote http(s) source
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve validates a local reference or downloads a remote one,
// returning the local media path and a best-effort duration.
func (r *implResolver) Resolve(ctx context.Context, ref, workDir string) (Resolved, error) {
	if IsURL(ref) {
		return r.resolveRemote(ctx, ref, workDir)
	}
	return r.resolveLocal(ctx, ref)
}

func (r *implResolver) resolveLocal(ctx context.Context, path string) (Resolved, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Resolved{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return Resolved{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	return Resolved{
		Path:         path,
		Label:        filepath.Base(path),
		DurationSecs: r.Duration(ctx, path),
	}, nil
}

func (r *implResolver) resolveRemote(ctx context.Context, url, workDir string) (Resolved, error) {
	r.logger.Info(ctx, "Fetching remote media: %s", url)

	var lastLogged int64
	path, err := r.fetcher.Fetch(ctx, url, workDir, func(downloaded, total int64) {
		// Log at most every 10 MiB to keep download noise down.
		if downloaded-lastLogged >= 10<<20 {
			lastLogged = downloaded
			r.logger.Debug(ctx, "Downloaded %d/%d bytes", downloaded, total)
		}
	})
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return Resolved{
		Path:         path,
		Label:        filepath.Base(path),
		DurationSecs: r.Duration(ctx, path),
		Downloaded:   true,
	}, nil
}

// Duration probes the media duration in seconds. Probing is best-effort:
// any failure yields 0, which disables ratio-based progress downstream.
func (r *implResolver) Duration(ctx context.Context, path string) float64 {
	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out, err := r.executor.Execute(probeCtx, r.probePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		r.logger.Warn(ctx, "Duration probe failed for %s: %v", path, err)
		return 0
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil || dur < 0 {
		return 0
	}
	return dur
}
