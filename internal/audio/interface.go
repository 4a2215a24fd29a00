package audio

import (
	"context"
	"errors"
	"fmt"
)

// ErrNormalizationTimeout is returned when the conversion tool exceeds
// its wall-clock budget
var ErrNormalizationTimeout = errors.New("audio normalization timed out")

// NormalizationError reports a conversion failure with the tool's output
type NormalizationError struct {
	Detail string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("audio normalization failed: %s", e.Detail)
}

// Normalizer converts arbitrary media into mono 16 kHz PCM audio.
// It writes exactly one file at outputPath and does not clean up on
// failure; removal is the caller's responsibility.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, outputPath string) error
}
