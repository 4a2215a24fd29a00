package audio

import (
	"time"

	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/pkg/executor"
)

type implNormalizer struct {
	binaryPath string
	timeout    time.Duration
	executor   executor.Executor
	logger     logger.Logger
}

// New creates an ffmpeg-backed Normalizer
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Normalizer {
	return &implNormalizer{
		binaryPath: cfg.BinaryPath,
		timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
		executor:   exec,
		logger:     log,
	}
}
