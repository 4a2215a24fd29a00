package summarizer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkdownToDocx(t *testing.T) {
	markdown := `# Main Topic

Some introduction with **bold terms** and ` + "`code`" + `.

## Details

- first point
- second **important** point

1. numbered step
2. another step

---

Closing remarks.
`

	path := filepath.Join(t.TempDir(), "summary.docx")
	if err := markdownToDocx("Lecture Summary", markdown, path); err != nil {
		t.Fatalf("markdownToDocx() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestHeadingSize(t *testing.T) {
	tests := []struct {
		level int
		want  uint64
	}{
		{1, 16},
		{2, 15},
		{3, 14},
		{4, fontSize},
		{6, fontSize},
	}

	for _, tt := range tests {
		if got := headingSize(tt.level); got != tt.want {
			t.Errorf("headingSize(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCleanMarkdownInline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"**bold**", "bold"},
		{"__emphasis__", "emphasis"},
		{"`code`", "code"},
		{"mix of **bold** and `code`", "mix of bold and code"},
	}

	for _, tt := range tests {
		if got := cleanMarkdownInline(tt.in); got != tt.want {
			t.Errorf("cleanMarkdownInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
