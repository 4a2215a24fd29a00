package recognizer

import (
	"bufio"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabi0s/transcipt-video/pkg/executor"
)

//go:embed assets/whisper_stream.py
var helperFS embed.FS

// RecognitionError reports a failure inside the recognition engine
type RecognitionError struct {
	Detail string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition failed: %s", e.Detail)
}

// helperLine is one line-delimited JSON message from the helper process
type helperLine struct {
	Type        string  `json:"type"`
	Language    string  `json:"language,omitempty"`
	Probability float64 `json:"probability,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
	Start       float64 `json:"start,omitempty"`
	End         float64 `json:"end,omitempty"`
	Text        string  `json:"text,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Recognize launches the helper and blocks until the model is loaded
func (r *implRecognizer) Recognize(ctx context.Context, audioPath string, opts Options) (Stream, error) {
	scriptPath, err := writeHelperScript()
	if err != nil {
		return nil, fmt.Errorf("write helper script: %w", err)
	}

	if opts.BeamSize <= 0 {
		opts.BeamSize = 5
	}

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", opts.Model,
		"--device", r.cfg.Device,
		"--compute", r.cfg.Compute,
		"--beam-size", strconv.Itoa(opts.BeamSize),
	}
	if lang := normalizeLanguage(opts.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if opts.VADFilter {
		ms := opts.MinSilenceMS
		if ms <= 0 {
			ms = 500
		}
		args = append(args, "--vad", "--min-silence-ms", strconv.Itoa(ms))
	}

	proc, err := r.executor.Start(ctx, r.cfg.PythonPath, args...)
	if err != nil {
		os.Remove(scriptPath)
		return nil, &RecognitionError{Detail: err.Error()}
	}

	s := &implStream{
		proc:       proc,
		scanner:    newHelperScanner(proc),
		scriptPath: scriptPath,
	}

	// The helper announces readiness once the model is constructed.
	line, err := s.read()
	if err != nil {
		s.Close()
		return nil, &RecognitionError{Detail: err.Error()}
	}
	if line.Type != "ready" {
		s.Close()
		return nil, &RecognitionError{Detail: fmt.Sprintf("unexpected engine message %q", line.Type)}
	}

	return s, nil
}

type implStream struct {
	proc       executor.Process
	scanner    *bufio.Scanner
	scriptPath string

	info     Info
	infoRead bool
	err      error
	closed   bool
}

// Info blocks until the engine has produced its language summary
func (s *implStream) Info() (Info, error) {
	if s.infoRead {
		return s.info, nil
	}

	line, err := s.read()
	if err != nil {
		s.err = &RecognitionError{Detail: err.Error()}
		return Info{}, s.err
	}
	if line.Type != "info" {
		s.err = &RecognitionError{Detail: fmt.Sprintf("unexpected engine message %q", line.Type)}
		return Info{}, s.err
	}

	s.info = Info{
		Language:    line.Language,
		Probability: line.Probability,
		Duration:    line.Duration,
	}
	s.infoRead = true
	return s.info, nil
}

// Next returns the next segment, or false when the sequence is exhausted
func (s *implStream) Next() (Segment, bool) {
	if s.err != nil || s.closed {
		return Segment{}, false
	}
	if !s.infoRead {
		if _, err := s.Info(); err != nil {
			return Segment{}, false
		}
	}

	for s.scanner.Scan() {
		var line helperLine
		if err := json.Unmarshal(s.scanner.Bytes(), &line); err != nil {
			continue
		}
		switch line.Type {
		case "segment":
			return Segment{
				Start: line.Start,
				End:   line.End,
				Text:  collapseWhitespace(line.Text),
			}, true
		case "error":
			s.err = &RecognitionError{Detail: line.Message}
			return Segment{}, false
		}
	}

	if err := s.scanner.Err(); err != nil {
		s.err = &RecognitionError{Detail: err.Error()}
		return Segment{}, false
	}

	// Clean EOF: the sequence is complete once the helper exits zero.
	s.closed = true
	os.Remove(s.scriptPath)
	if err := s.proc.Wait(); err != nil {
		s.err = &RecognitionError{Detail: err.Error()}
	}
	return Segment{}, false
}

func (s *implStream) Err() error {
	return s.err
}

// Close terminates the helper process early
func (s *implStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	os.Remove(s.scriptPath)
	_ = s.proc.Kill()
	_ = s.proc.Wait()
	return nil
}

// read scans one JSON line, surfacing premature process exit
func (s *implStream) read() (helperLine, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return helperLine{}, err
		}
		if err := s.proc.Wait(); err != nil {
			return helperLine{}, err
		}
		return helperLine{}, fmt.Errorf("engine exited before producing output")
	}

	var line helperLine
	if err := json.Unmarshal(s.scanner.Bytes(), &line); err != nil {
		return helperLine{}, fmt.Errorf("malformed engine output: %w", err)
	}
	return line, nil
}

func newHelperScanner(proc executor.Process) *bufio.Scanner {
	scanner := bufio.NewScanner(proc.Stdout())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

// writeHelperScript materializes the embedded helper into the temp dir
func writeHelperScript() (string, error) {
	data, err := helperFS.ReadFile("assets/whisper_stream.py")
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "whisper-stream-*.py")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return filepath.Clean(path), nil
}

// normalizeLanguage maps "auto" and empty input to auto-detection
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return strings.ToLower(lang)
}

// collapseWhitespace trims and squeezes internal runs of whitespace
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
