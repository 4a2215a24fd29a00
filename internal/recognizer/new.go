package recognizer

import (
	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/pkg/executor"
)

type implRecognizer struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Recognizer backed by the faster-whisper helper process
func New(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Recognizer {
	return &implRecognizer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
