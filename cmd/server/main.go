package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/gabi0s/transcipt-video/internal/audio"
	"github.com/gabi0s/transcipt-video/internal/config"
	"github.com/gabi0s/transcipt-video/internal/jobs"
	"github.com/gabi0s/transcipt-video/internal/logger"
	"github.com/gabi0s/transcipt-video/internal/pipeline"
	"github.com/gabi0s/transcipt-video/internal/recognizer"
	"github.com/gabi0s/transcipt-video/internal/server"
	"github.com/gabi0s/transcipt-video/internal/source"
	"github.com/gabi0s/transcipt-video/internal/summarizer"
	"github.com/gabi0s/transcipt-video/internal/watcher"
	"github.com/gabi0s/transcipt-video/pkg/executor"
)

func main() {
	ctx := context.Background()

	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Configuration file path")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Media Transcription Service")
	log.Info(ctx, "========================================")

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	exec := executor.New()

	registry, err := buildRegistry(cfg)
	if err != nil {
		log.Error(ctx, "Failed to create registry: %v", err)
		os.Exit(1)
	}
	bus := jobs.NewBus()
	registry = jobs.NewNotifyingRegistry(registry, bus)

	fetcher := source.NewFetcher(cfg.Fetcher.BinaryPath, exec)
	resolver := source.New(cfg.FFmpeg, fetcher, exec, log)
	normalizer := audio.New(cfg.FFmpeg, exec, log)
	engine := recognizer.New(cfg.Whisper, exec, log)

	var summ summarizer.Summarizer
	if cfg.Summarizer.Enabled {
		summ = summarizer.New(cfg.Summarizer, log)
		log.Info(ctx, "Transcript summaries enabled (model: %s)", cfg.Summarizer.Model)
	}

	pipe := pipeline.New(cfg.Paths, registry, resolver, normalizer, engine, summ, log)
	manager := pipeline.NewManager(pipe, cfg.Performance.MaxConcurrent, log)

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	srv := server.New(jobCtx, cfg, registry, bus, manager, log)

	if cfg.Paths.Watch != "" {
		w, err := watcher.New(cfg.Paths.Watch, submitFunc(registry, manager, jobCtx), log)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(jobCtx); err != nil && err != context.Canceled {
				log.Error(ctx, "Watcher error: %v", err)
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	log.Info(ctx, "Registry backend: %s", cfg.Registry.Backend)
	log.Info(ctx, "Max concurrent jobs: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Outputs: %s", cfg.Paths.Outputs)
	log.Info(ctx, "Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown: %v", err)
	}

	cancelJobs()
	manager.Wait()
	log.Info(ctx, "Service stopped")
}

// submitFunc adapts drop-folder discoveries into job submissions with
// default options.
func submitFunc(registry jobs.Registry, manager *pipeline.Manager, jobCtx context.Context) watcher.SubmitFunc {
	return func(ctx context.Context, path string) error {
		jobID := strings.ReplaceAll(uuid.NewString(), "-", "")
		job := jobs.Job{
			ID:          jobID,
			SourceLabel: filepath.Base(path),
			CreatedAt:   time.Now().UTC(),
		}
		if err := registry.Create(ctx, job); err != nil {
			return err
		}

		manager.Submit(jobCtx, pipeline.Request{
			JobID:       jobID,
			Source:      path,
			SourceLabel: job.SourceLabel,
			Model:       "small",
			Formats:     pipeline.Formats{Text: true, Subtitles: true},
		})
		return nil
	}
}

// buildRegistry selects the configured registry backend
func buildRegistry(cfg *config.Config) (jobs.Registry, error) {
	switch cfg.Registry.Backend {
	case "memory":
		return jobs.NewMemoryRegistry(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Registry.RedisAddr})
		return jobs.NewRedisRegistry(client, cfg.Registry.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Outputs,
		cfg.Paths.Temp,
	}
	if cfg.Paths.Watch != "" {
		dirs = append(dirs, cfg.Paths.Watch)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
