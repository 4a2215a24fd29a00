package audio

import (
	"context"
	"errors"
)

// Normalize converts the input media into a mono 16 kHz WAV file
func (n *implNormalizer) Normalize(ctx context.Context, inputPath, outputPath string) error {
	runCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	n.logger.Info(ctx, "Extracting audio: %s -> %s", inputPath, outputPath)

	// -vn drops video streams; -ac 1 -ar 16000 is the canonical
	// recognition input format.
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-loglevel", "error",
		outputPath,
	}

	if _, err := n.executor.Execute(runCtx, n.binaryPath, args...); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return ErrNormalizationTimeout
		}
		return &NormalizationError{Detail: err.Error()}
	}

	return nil
}
