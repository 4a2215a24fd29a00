package transcript

import (
	"fmt"
	"math"
	"strings"
)

// Normalize trims text and collapses internal whitespace runs to single spaces
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FormatTimestamp renders seconds as HH:MM:SS, truncating fractions
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatSubtitleTimestamp renders seconds as HH:MM:SS,mmm with the
// milliseconds obtained by rounding before integer decomposition
func FormatSubtitleTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
