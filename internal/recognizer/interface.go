package recognizer

import "context"

// Segment is one timed span of recognized speech
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Info is the language-detection summary for one recognition run
type Info struct {
	Language    string  `json:"language"`
	Probability float64 `json:"probability"`
	Duration    float64 `json:"duration"`
}

// Options control one recognition run
type Options struct {
	Model        string // tiny, base, small, medium, large-v3
	Language     string // ISO code, empty for auto-detect
	BeamSize     int
	VADFilter    bool
	MinSilenceMS int
}

// Stream is a lazily-produced, finite, single-pass sequence of segments.
// Info blocks until the engine has analyzed the audio header; Next blocks
// until the next segment is recognized. After Next returns false the
// caller must check Err. Close releases the engine early.
type Stream interface {
	Info() (Info, error)
	Next() (Segment, bool)
	Err() error
	Close() error
}

// Recognizer is the speech-to-text engine boundary. Recognize returns
// once the engine is initialized; recognition itself happens as the
// stream is consumed.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string, opts Options) (Stream, error)
}
