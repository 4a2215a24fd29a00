package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabi0s/transcipt-video/pkg/executor"
)

// progressTemplate makes yt-dlp print "downloaded/total" byte counts,
// one line per progress update.
const progressTemplate = "download:%(progress.downloaded_bytes)s/%(progress.total_bytes)s"

type implFetcher struct {
	binaryPath string
	executor   executor.Executor
}

// NewFetcher creates a yt-dlp backed Fetcher
func NewFetcher(binaryPath string, exec executor.Executor) Fetcher {
	return &implFetcher{
		binaryPath: binaryPath,
		executor:   exec,
	}
}

// Fetch downloads the best audio rendition of a URL into destDir.
// destDir must be empty and owned by the caller: the downloaded file is
// located by listing the directory after yt-dlp exits.
func (f *implFetcher) Fetch(ctx context.Context, url, destDir string, onProgress ProgressFunc) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	args := []string{
		"--newline",
		"--no-warnings",
		"--no-playlist",
		"-f", "bestaudio/best",
		"--progress-template", progressTemplate,
		"-o", filepath.Join(destDir, "%(title).200B.%(ext)s"),
		url,
	}

	proc, err := f.executor.Start(ctx, f.binaryPath, args...)
	if err != nil {
		return "", err
	}

	scanner := bufio.NewScanner(proc.Stdout())
	for scanner.Scan() {
		if downloaded, total, ok := parseProgressLine(scanner.Text()); ok && onProgress != nil {
			onProgress(downloaded, total)
		}
	}

	if err := proc.Wait(); err != nil {
		return "", err
	}

	return findDownloadedFile(destDir)
}

// parseProgressLine reads a "downloaded/total" byte-count line
func parseProgressLine(line string) (int64, int64, bool) {
	left, right, ok := strings.Cut(strings.TrimSpace(line), "/")
	if !ok {
		return 0, 0, false
	}

	downloaded, err := strconv.ParseInt(left, 10, 64)
	if err != nil {
		return 0, 0, false
	}

	// total_bytes is "NA" when the remote size is unknown.
	total, err := strconv.ParseInt(right, 10, 64)
	if err != nil {
		total = 0
	}

	return downloaded, total, true
}

// findDownloadedFile returns the single media file yt-dlp left behind
func findDownloadedFile(destDir string) (string, error) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("read download dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".part") {
			continue
		}
		return filepath.Join(destDir, entry.Name()), nil
	}

	return "", fmt.Errorf("download produced no file in %s", destDir)
}
