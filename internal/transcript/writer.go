package transcript

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gabi0s/transcipt-video/internal/recognizer"
)

// SegmentWriter renders recognized segments into one output representation.
// Segments are written in the order produced by recognition; the writer
// performs no reordering or validation of the given times.
type SegmentWriter interface {
	Write(seg recognizer.Segment) error
	Flush() error
}

type implTextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates the annotated-text representation: one segment
// per line, normalized text followed by a bracketed end timestamp.
func NewTextWriter(w io.Writer) SegmentWriter {
	return &implTextWriter{w: bufio.NewWriter(w)}
}

func (t *implTextWriter) Write(seg recognizer.Segment) error {
	_, err := fmt.Fprintf(t.w, "%s [%s]\n", Normalize(seg.Text), FormatTimestamp(seg.End))
	return err
}

func (t *implTextWriter) Flush() error {
	return t.w.Flush()
}

type implSubtitleWriter struct {
	w     *bufio.Writer
	index int
}

// NewSubtitleWriter creates the SRT representation: 1-based index,
// start --> end time range, normalized text and a blank separator.
func NewSubtitleWriter(w io.Writer) SegmentWriter {
	return &implSubtitleWriter{w: bufio.NewWriter(w)}
}

func (s *implSubtitleWriter) Write(seg recognizer.Segment) error {
	s.index++
	_, err := fmt.Fprintf(s.w, "%d\n%s --> %s\n%s\n\n",
		s.index,
		FormatSubtitleTimestamp(seg.Start),
		FormatSubtitleTimestamp(seg.End),
		Normalize(seg.Text),
	)
	return err
}

func (s *implSubtitleWriter) Flush() error {
	return s.w.Flush()
}
