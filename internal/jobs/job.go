package jobs

import "time"

// Status is the lifecycle state of a transcription job
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether no further transitions can occur
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Artifacts holds the output file locations produced by a completed job
type Artifacts struct {
	TextPath     string `json:"text_path,omitempty"`
	SubtitlePath string `json:"subtitle_path,omitempty"`
	SummaryPath  string `json:"summary_path,omitempty"`
	DocxPath     string `json:"docx_path,omitempty"`
}

// Job is one submitted media-to-transcript task and its tracked state
type Job struct {
	ID                 string    `json:"id"`
	Status             Status    `json:"status"`
	Progress           int       `json:"progress"`
	SourceLabel        string    `json:"source_label"`
	Artifacts          Artifacts `json:"artifacts"`
	Language           string    `json:"language,omitempty"`
	LanguageConfidence float64   `json:"language_confidence,omitempty"`
	Error              string    `json:"error,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Completion carries the final fields attached when a job finishes
type Completion struct {
	Artifacts          Artifacts
	Language           string
	LanguageConfidence float64
}

// validTransition enforces the one-directional job state machine
func validTransition(from, to Status) bool {
	switch from {
	case StatusQueued:
		return to == StatusRunning || to == StatusError
	case StatusRunning:
		return to == StatusDone || to == StatusError
	default:
		return false
	}
}
