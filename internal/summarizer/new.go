package summarizer

import (
	"sync"

	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/logger"
)

type implSummarizer struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	// mu guards currentKey: one instance serves every worker goroutine.
	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the supplied Gemini API keys
func New(cfg config.SummarizerConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys: cfg.APIKeys,
		model:   cfg.Model,
		logger:  log,
	}
}
