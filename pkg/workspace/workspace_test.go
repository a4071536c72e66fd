package workspace

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestBuildFilename(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		audience string
		ext      string
		want     string
	}{
		{"simple", "Go Basics", "beginner", "md", "go-basics-beginner-guide.md"},
		{"punctuation", "What's new in Go 1.25?!", "advanced", "md", "whats-new-in-go-125-advanced-guide.md"},
		{"extra whitespace", "  spaced   out \t topic ", "intermediate", "md", "spaced-out-topic-intermediate-guide.md"},
		{"hyphen runs", "micro--services -- in go", "beginner", "md", "micro-services-in-go-beginner-guide.md"},
		{"unicode stripped", "café culture — espresso", "beginner", "md", "caf-culture-espresso-beginner-guide.md"},
		{"empty ext defaults to md", "topic", "beginner", "", "topic-beginner-guide.md"},
		{"html ext", "topic", "beginner", "html", "topic-beginner-guide.html"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildFilename(tc.topic, tc.audience, tc.ext)
			if got != tc.want {
				t.Errorf("BuildFilename(%q, %q, %q) = %q, want %q",
					tc.topic, tc.audience, tc.ext, got, tc.want)
			}
		})
	}
}

func TestBuildFilename_SlugShapeAndLength(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9_-]*-beginner-guide\.md$`)

	topics := []string{
		"A Very Long Topic Title That Goes On And On And On And On And On Forever",
		"!!!???...",
		"C++ & Rust: systems programming (2026 edition)",
		"日本語のトピック",
		"mixed 日本語 and english words",
		"----leading and trailing----",
	}

	for _, topic := range topics {
		got := BuildFilename(topic, "beginner", "md")
		if !pattern.MatchString(got) {
			t.Errorf("BuildFilename(%q) = %q does not match %v", topic, got, pattern)
		}
		slug := strings.TrimSuffix(got, "-beginner-guide.md")
		if len(slug) > 50 {
			t.Errorf("slug %q longer than 50 chars (%d)", slug, len(slug))
		}
		if strings.HasSuffix(slug, "-") || strings.HasPrefix(slug, "-") {
			t.Errorf("slug %q has leading/trailing hyphen", slug)
		}
	}
}

func TestBuildFilename_Deterministic(t *testing.T) {
	a := BuildFilename("Consistent Topic", "advanced", "md")
	b := BuildFilename("Consistent Topic", "advanced", "md")
	if a != b {
		t.Errorf("not deterministic: %q != %q", a, b)
	}
}

func TestNew_CreatesDirectories(t *testing.T) {
	base := t.TempDir()
	outDir := filepath.Join(base, "output")
	logsDir := filepath.Join(base, "logs")

	ws, err := New(outDir, logsDir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, dir := range []string{outDir, logsDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s was not created", dir)
		}
	}
	if ws.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestGenerateRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRunID()
		if seen[id] {
			t.Fatalf("duplicate run ID %q", id)
		}
		seen[id] = true
	}
}

func TestArtifactPaths(t *testing.T) {
	base := t.TempDir()
	ws, err := New(filepath.Join(base, "output"), filepath.Join(base, "logs"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := filepath.Base(ws.OutlinePath()); got != "guide_outline.json" {
		t.Errorf("OutlinePath base = %q", got)
	}
	if got := filepath.Base(ws.GuidePath("Go Basics", "beginner")); got != "go-basics-beginner-guide.md" {
		t.Errorf("GuidePath base = %q", got)
	}
	if got := filepath.Base(ws.CostEstimatePath("Go Basics", "beginner")); !strings.HasSuffix(got, "_cost_estimate.json") {
		t.Errorf("CostEstimatePath base = %q, want *_cost_estimate.json", got)
	}
	if got := filepath.Base(ws.MetricsPath("Go Basics", "beginner")); !strings.HasSuffix(got, "_metrics.json") {
		t.Errorf("MetricsPath base = %q, want *_metrics.json", got)
	}
	if got := filepath.Base(ws.SessionLogPath()); !strings.HasPrefix(got, "guide_creation_") {
		t.Errorf("SessionLogPath base = %q", got)
	}
}

