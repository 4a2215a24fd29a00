package source

import (
	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/pkg/executor"
)

type implResolver struct {
	probePath string
	fetcher   Fetcher
	executor  executor.Executor
	logger    logger.Logger
}

// New creates a Resolver using ffprobe for durations and the given
// fetcher for remote references.
func New(cfg config.FFmpegConfig, fetcher Fetcher, exec executor.Executor, log logger.Logger) Resolver {
	return &implResolver{
		probePath: cfg.ProbePath,
		fetcher:   fetcher,
		executor:  exec,
		logger:    log,
	}
}
