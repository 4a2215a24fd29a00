package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabi0s/transcipt-video/internal/jobs"
	"github.com/gabi0s/transcipt-video/internal/pipeline"
	"github.com/gabi0s/transcipt-video/internal/source"
)

// maxUploadBytes caps request bodies for media uploads
const maxUploadBytes = 4 << 30

var allowedModels = map[string]bool{
	"tiny":     true,
	"base":     true,
	"small":    true,
	"medium":   true,
	"large-v3": true,
}

type submitResponse struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
}

type statusResponse struct {
	Status   jobs.Status `json:"status"`
	Progress int         `json:"progress"`
	Error    string      `json:"error,omitempty"`
	Language string      `json:"language,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSubmit accepts a media upload or a URL and creates a job.
// Bad input is reported synchronously and no job is created.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	jobID := strings.ReplaceAll(uuid.NewString(), "-", "")

	var (
		src      string
		label    string
		opts     submitOptions
		uploaded string // stored upload path, empty for URL submissions
		err      error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		src, label, opts, err = s.parseURLSubmission(r)
	} else {
		src, label, opts, err = s.parseUploadSubmission(r, jobID)
		uploaded = src
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	job := jobs.Job{
		ID:          jobID,
		SourceLabel: label,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.registry.Create(r.Context(), job); err != nil {
		if uploaded != "" {
			os.Remove(uploaded)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not register job"})
		return
	}

	s.manager.Submit(s.jobCtx, pipeline.Request{
		JobID:       jobID,
		Source:      src,
		SourceLabel: label,
		Model:       opts.model,
		Language:    opts.language,
		VADFilter:   opts.vad,
		Formats:     opts.formats,
	})

	writeJSON(w, http.StatusAccepted, submitResponse{JobID: jobID, Filename: label})
}

type submitOptions struct {
	model    string
	language string
	vad      bool
	formats  pipeline.Formats
}

func (s *Server) parseUploadSubmission(r *http.Request, jobID string) (string, string, submitOptions, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", "", submitOptions{}, fmt.Errorf("invalid multipart request")
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		return "", "", submitOptions{}, fmt.Errorf("no file provided")
	}
	defer file.Close()

	safe := sanitizeFilename(header.Filename)
	if !source.SupportedExtension(safe) {
		return "", "", submitOptions{}, fmt.Errorf("unsupported media format: %s", filepath.Ext(safe))
	}

	opts, err := parseOptions(r.FormValue("model"), r.FormValue("language"), r.FormValue("vad"), r.FormValue("formats"))
	if err != nil {
		return "", "", submitOptions{}, err
	}

	if err := os.MkdirAll(s.paths.Uploads, 0755); err != nil {
		return "", "", submitOptions{}, fmt.Errorf("cannot store upload")
	}
	// Uploads are namespaced by job id so concurrent submissions of
	// the same filename never collide.
	saved := filepath.Join(s.paths.Uploads, jobID+"_"+safe)
	dst, err := os.Create(saved)
	if err != nil {
		return "", "", submitOptions{}, fmt.Errorf("cannot store upload")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(saved)
		return "", "", submitOptions{}, fmt.Errorf("cannot store upload")
	}

	return saved, safe, opts, nil
}

func (s *Server) parseURLSubmission(r *http.Request) (string, string, submitOptions, error) {
	var body struct {
		URL      string `json:"url"`
		Model    string `json:"model"`
		Language string `json:"language"`
		VAD      bool   `json:"vad"`
		Formats  string `json:"formats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", "", submitOptions{}, fmt.Errorf("invalid JSON body")
	}
	if !source.IsURL(body.URL) {
		return "", "", submitOptions{}, fmt.Errorf("url must start with http:// or https://")
	}

	vad := ""
	if body.VAD {
		vad = "true"
	}
	opts, err := parseOptions(body.Model, body.Language, vad, body.Formats)
	if err != nil {
		return "", "", submitOptions{}, err
	}

	return body.URL, body.URL, opts, nil
}

func parseOptions(model, language, vad, formats string) (submitOptions, error) {
	if model == "" {
		model = "small"
	}
	if !allowedModels[model] {
		return submitOptions{}, fmt.Errorf("unknown model %q", model)
	}

	opts := submitOptions{
		model:    model,
		language: strings.TrimSpace(language),
		vad:      strings.EqualFold(vad, "true"),
	}

	switch formats {
	case "", "both":
		opts.formats = pipeline.Formats{Text: true, Subtitles: true}
	case "txt":
		opts.formats = pipeline.Formats{Text: true}
	case "srt":
		opts.formats = pipeline.Formats{Subtitles: true}
	default:
		return submitOptions{}, fmt.Errorf("unknown formats %q", formats)
	}

	return opts, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:   job.Status,
		Progress: job.Progress,
		Error:    job.Error,
		Language: job.Language,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	if job.Status.Terminal() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "job already finished"})
		return
	}

	s.manager.Cancel(job.ID)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, func(a jobs.Artifacts) string { return a.TextPath }, "transcription")
}

func (s *Server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, func(a jobs.Artifacts) string { return a.SubtitlePath }, "subtitles")
}

// serveArtifact returns a produced file only for jobs in done state
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, pick func(jobs.Artifacts) string, prefix string) {
	job, ok := s.lookup(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	path := pick(job.Artifacts)
	if job.Status != jobs.StatusDone || path == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	stem := strings.TrimSuffix(job.SourceLabel, filepath.Ext(job.SourceLabel))
	name := fmt.Sprintf("%s_%s%s", prefix, stem, filepath.Ext(path))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// lookup resolves a job by identifier, writing 404 on miss
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, id string) (jobs.Job, bool) {
	job, err := s.registry.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown job"})
		return jobs.Job{}, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "registry unavailable"})
		return jobs.Job{}, false
	}
	return job, true
}

// sanitizeFilename keeps alphanumerics, spaces, dashes, underscores and dots
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ', c == '-', c == '_', c == '.':
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
