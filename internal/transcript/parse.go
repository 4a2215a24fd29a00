package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gabi0s/transcipt-video/internal/recognizer"
)

// ParseSubtitles reads SRT content back into segments. Index lines are
// checked for shape only; block order is taken as given.
func ParseSubtitles(r io.Reader) ([]recognizer.Segment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var segments []recognizer.Segment
	for {
		seg, ok, err := parseBlock(scanner)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		segments = append(segments, seg)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}

// parseBlock consumes one index/time/text block, skipping leading blanks
func parseBlock(scanner *bufio.Scanner) (recognizer.Segment, bool, error) {
	var index string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			index = line
			break
		}
	}
	if index == "" {
		return recognizer.Segment{}, false, nil
	}
	if _, err := strconv.Atoi(index); err != nil {
		return recognizer.Segment{}, false, fmt.Errorf("malformed subtitle index %q", index)
	}

	if !scanner.Scan() {
		return recognizer.Segment{}, false, fmt.Errorf("subtitle block %s is missing its time range", index)
	}
	start, end, err := parseTimeRange(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return recognizer.Segment{}, false, err
	}

	var text []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		text = append(text, line)
	}

	return recognizer.Segment{
		Start: start,
		End:   end,
		Text:  Normalize(strings.Join(text, " ")),
	}, true, nil
}

func parseTimeRange(line string) (float64, float64, error) {
	parts := strings.Split(line, " --> ")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed subtitle time range %q", line)
	}

	start, err := parseSubtitleTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := parseSubtitleTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseSubtitleTimestamp reads HH:MM:SS,mmm back into seconds
func parseSubtitleTimestamp(ts string) (float64, error) {
	clock, msPart, ok := strings.Cut(ts, ",")
	if !ok {
		return 0, fmt.Errorf("malformed subtitle timestamp %q", ts)
	}

	fields := strings.Split(clock, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("malformed subtitle timestamp %q", ts)
	}

	h, err1 := strconv.Atoi(fields[0])
	m, err2 := strconv.Atoi(fields[1])
	s, err3 := strconv.Atoi(fields[2])
	ms, err4 := strconv.Atoi(msPart)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, fmt.Errorf("malformed subtitle timestamp %q", ts)
	}

	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}
