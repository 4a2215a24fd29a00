package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabi0s/transcipt-video/internal/jobs"
	"github.com/gabi0s/transcipt-video/internal/recognizer"
	"github.com/gabi0s/transcipt-video/internal/transcript"
)

// recognitionOptions maps a job request onto the engine boundary.
// Beam width is fixed at 5; VAD uses a 500 ms minimum silence.
func recognitionOptions(req Request) recognizer.Options {
	return recognizer.Options{
		Model:        req.Model,
		Language:     req.Language,
		BeamSize:     5,
		VADFilter:    req.VADFilter,
		MinSilenceMS: 500,
	}
}

// Run executes one job end-to-end: resolve, normalize, recognize,
// write artifacts, update progress, clean up.
func (p *implPipeline) Run(ctx context.Context, req Request) {
	if ctx.Err() != nil {
		p.fail(ctx, req.JobID, "canceled", nil)
		return
	}

	p.logger.Info(ctx, "Job %s started: %s", req.JobID, req.SourceLabel)

	workDir := filepath.Join(p.paths.Temp, req.JobID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		p.fail(ctx, req.JobID, fmt.Sprintf("create work directory: %v", err), nil)
		return
	}
	defer p.removeWorkDir(ctx, workDir)

	if err := p.registry.MarkRunning(ctx, req.JobID); err != nil {
		p.logger.Error(ctx, "Job %s cannot start: %v", req.JobID, err)
		return
	}
	p.setProgress(ctx, req.JobID, progressRunning)

	resolved, err := p.resolver.Resolve(ctx, req.Source, workDir)
	if err != nil {
		p.fail(ctx, req.JobID, err.Error(), nil)
		return
	}

	wavPath := filepath.Join(workDir, "audio-16k-mono.wav")
	if err := p.normalizer.Normalize(ctx, resolved.Path, wavPath); err != nil {
		p.fail(ctx, req.JobID, err.Error(), nil)
		return
	}
	p.setProgress(ctx, req.JobID, progressNormalized)

	stream, err := p.recognizer.Recognize(ctx, wavPath, recognitionOptions(req))
	if err != nil {
		p.fail(ctx, req.JobID, err.Error(), nil)
		return
	}
	defer stream.Close()
	p.setProgress(ctx, req.JobID, progressEngineReady)

	info, err := stream.Info()
	if err != nil {
		p.fail(ctx, req.JobID, err.Error(), nil)
		return
	}

	total := resolved.DurationSecs
	if total <= 0 {
		total = info.Duration
	}

	artifacts, err := p.consumeSegments(ctx, req, stream, total)
	if err != nil {
		p.fail(ctx, req.JobID, err.Error(), artifacts)
		return
	}

	completion := jobs.Completion{
		Artifacts:          artifacts.paths(),
		Language:           info.Language,
		LanguageConfidence: info.Probability,
	}
	p.summarize(ctx, req, &completion)

	if err := p.registry.Complete(ctx, req.JobID, completion); err != nil {
		p.logger.Error(ctx, "Job %s could not be completed: %v", req.JobID, err)
		return
	}
	p.logger.Info(ctx, "Job %s done (language=%s)", req.JobID, info.Language)
}

// jobArtifacts tracks output files created during one run so a failing
// job can remove everything it produced.
type jobArtifacts struct {
	textPath     string
	subtitlePath string
}

func (a *jobArtifacts) paths() jobs.Artifacts {
	return jobs.Artifacts{
		TextPath:     a.textPath,
		SubtitlePath: a.subtitlePath,
	}
}

func (a *jobArtifacts) list() []string {
	var out []string
	if a.textPath != "" {
		out = append(out, a.textPath)
	}
	if a.subtitlePath != "" {
		out = append(out, a.subtitlePath)
	}
	return out
}

// consumeSegments traverses the recognition stream exactly once, feeding
// every requested output writer and advancing progress. The stream is
// one-pass: all formats are populated from this single traversal.
func (p *implPipeline) consumeSegments(ctx context.Context, req Request, stream recognizer.Stream, total float64) (*jobArtifacts, error) {
	if err := os.MkdirAll(p.paths.Outputs, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	artifacts := &jobArtifacts{}
	var writers []transcript.SegmentWriter
	var files []*os.File

	openOutput := func(path string, build func(f *os.File) transcript.SegmentWriter) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create artifact %s: %w", path, err)
		}
		files = append(files, f)
		writers = append(writers, build(f))
		return nil
	}

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if req.Formats.Text {
		artifacts.textPath = filepath.Join(p.paths.Outputs, req.JobID+".txt")
		if err := openOutput(artifacts.textPath, func(f *os.File) transcript.SegmentWriter {
			return transcript.NewTextWriter(f)
		}); err != nil {
			closeAll()
			return artifacts, err
		}
	}
	if req.Formats.Subtitles {
		artifacts.subtitlePath = filepath.Join(p.paths.Outputs, req.JobID+".srt")
		if err := openOutput(artifacts.subtitlePath, func(f *os.File) transcript.SegmentWriter {
			return transcript.NewSubtitleWriter(f)
		}); err != nil {
			closeAll()
			return artifacts, err
		}
	}

	tracker := newProgressTracker(total)
	for {
		if ctx.Err() != nil {
			closeAll()
			return artifacts, fmt.Errorf("canceled")
		}

		seg, ok := stream.Next()
		if !ok {
			break
		}

		for _, w := range writers {
			if err := w.Write(seg); err != nil {
				closeAll()
				return artifacts, fmt.Errorf("write artifact: %w", err)
			}
		}

		if pct, raised := tracker.Advance(seg.End); raised {
			p.setProgress(ctx, req.JobID, pct)
		}
	}

	if err := stream.Err(); err != nil {
		closeAll()
		return artifacts, err
	}

	for _, w := range writers {
		if err := w.Flush(); err != nil {
			closeAll()
			return artifacts, fmt.Errorf("flush artifact: %w", err)
		}
	}
	closeAll()

	return artifacts, nil
}

// summarize attaches best-effort summary artifacts to the completion
func (p *implPipeline) summarize(ctx context.Context, req Request, completion *jobs.Completion) {
	if p.summarizer == nil || completion.Artifacts.TextPath == "" {
		return
	}

	content, err := os.ReadFile(completion.Artifacts.TextPath)
	if err != nil {
		p.logger.Warn(ctx, "Job %s: cannot read transcript for summary: %v", req.JobID, err)
		return
	}

	title := strings.TrimSuffix(req.SourceLabel, filepath.Ext(req.SourceLabel))
	base := filepath.Join(p.paths.Outputs, req.JobID+"-summary")
	mdPath, docxPath, err := p.summarizer.Summarize(ctx, title, string(content), base)
	if err != nil {
		p.logger.Warn(ctx, "Job %s: summary failed: %v", req.JobID, err)
		return
	}

	completion.Artifacts.SummaryPath = mdPath
	completion.Artifacts.DocxPath = docxPath
}

// fail records the terminal error state and removes partial artifacts
func (p *implPipeline) fail(ctx context.Context, jobID, msg string, artifacts *jobArtifacts) {
	p.logger.Error(ctx, "Job %s failed: %s", jobID, msg)

	if artifacts != nil {
		for _, path := range artifacts.list() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				p.logger.Warn(ctx, "Job %s: cannot remove partial artifact %s: %v", jobID, path, err)
			}
		}
	}

	// Terminal writes must land even when the job context is canceled.
	if err := p.registry.Fail(context.WithoutCancel(ctx), jobID, msg); err != nil {
		p.logger.Error(ctx, "Job %s: cannot record failure: %v", jobID, err)
	}
}

func (p *implPipeline) setProgress(ctx context.Context, jobID string, pct int) {
	if err := p.registry.SetProgress(ctx, jobID, pct); err != nil {
		p.logger.Warn(ctx, "Job %s: progress update failed: %v", jobID, err)
	}
}

// removeWorkDir deletes the job's temporary audio; failures are logged,
// never surfaced as job errors.
func (p *implPipeline) removeWorkDir(ctx context.Context, workDir string) {
	if err := os.RemoveAll(workDir); err != nil {
		p.logger.Warn(ctx, "Failed to clean up %s: %v", workDir, err)
	}
}
