package pipeline

import (
	"github.com/gabi0s/transcipt-video/internal/audio"
	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/jobs"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/internal/recognizer"
	"github.com/gabi0s/transcipt-video/internal/source"
	"github.com/gabi0s/transcipt-video/internal/summarizer"
)

type implPipeline struct {
	paths      config.PathsConfig
	registry   jobs.Registry
	resolver   source.Resolver
	normalizer audio.Normalizer
	recognizer recognizer.Recognizer
	summarizer summarizer.Summarizer // nil when summaries are disabled
	logger     logger.Logger
}

// New creates the transcription Pipeline with its collaborators.
// summ may be nil to disable post-completion summaries.
func New(
	paths config.PathsConfig,
	registry jobs.Registry,
	resolver source.Resolver,
	normalizer audio.Normalizer,
	rec recognizer.Recognizer,
	summ summarizer.Summarizer,
	log logger.Logger,
) Pipeline {
	return &implPipeline{
		paths:      paths,
		registry:   registry,
		resolver:   resolver,
		normalizer: normalizer,
		recognizer: rec,
		summarizer: summ,
		logger:     log,
	}
}
