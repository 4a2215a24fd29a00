package transcript

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"leading and trailing space", "  hello world  ", "hello world"},
		{"internal runs", "hello \t  world", "hello world"},
		{"newlines collapse", "hello\nworld", "hello world"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00"},
		{"fraction truncates", 1.999, "00:00:01"},
		{"minute boundary", 60, "00:01:00"},
		{"hour boundary", 3600, "01:00:00"},
		{"mixed", 3723.4, "01:02:03"},
		{"negative clamps to zero", -5, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatSubtitleTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00,000"},
		{"milliseconds", 5.042, "00:00:05,042"},
		{"round carries into seconds", 1.9996, "00:00:02,000"},
		{"hour boundary", 3600, "01:00:00,000"},
		{"mixed", 3723.042, "01:02:03,042"},
		{"negative clamps to zero", -1, "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSubtitleTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatSubtitleTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
