package content

import (
	"strings"
	"testing"

	"guidecraft/pkg/outline"
)

func testOutline() *outline.GuideOutline {
	return &outline.GuideOutline{
		Title:          "Test Guide",
		Introduction:   "Welcome to the guide.",
		TargetAudience: "beginner developers",
		Sections: []outline.Section{
			{Title: "Intro Basics", Description: "basics"},
			{Title: "Advanced Tips", Description: "tips"},
		},
		Conclusion: "That's all.",
	}
}

func TestCompileGuide_Structure(t *testing.T) {
	sections := map[string]string{
		"Intro Basics":  "## Intro Basics\n\nBasics body.",
		"Advanced Tips": "## Advanced Tips\n\nTips body.",
	}
	doc := CompileGuide(testOutline(), sections)

	if !strings.HasPrefix(doc, "# Test Guide\n\n") {
		t.Errorf("document does not start with the title heading: %q", doc[:40])
	}
	if strings.Count(doc, "\n# ")+boolToInt(strings.HasPrefix(doc, "# ")) != 1 {
		t.Errorf("expected exactly one level-1 heading")
	}
	if strings.Count(doc, "## Introduction") != 1 {
		t.Errorf("expected exactly one Introduction heading")
	}
	if strings.Count(doc, "## Conclusion") != 1 {
		t.Errorf("expected exactly one Conclusion heading")
	}

	// Sections appear in outline order between intro and conclusion.
	intro := strings.Index(doc, "## Introduction")
	first := strings.Index(doc, "## Intro Basics")
	second := strings.Index(doc, "## Advanced Tips")
	concl := strings.Index(doc, "## Conclusion")
	if !(intro < first && first < second && second < concl) {
		t.Errorf("heading order wrong: intro=%d first=%d second=%d concl=%d",
			intro, first, second, concl)
	}
}

func TestCompileGuide_NoFenceMarkers(t *testing.T) {
	// Section bodies have already been cleaned; compile must not
	// introduce fence markers of its own.
	sections := map[string]string{
		"Intro Basics":  CleanSection("```markdown\n## Intro Basics\n\nBody.\n```"),
		"Advanced Tips": CleanSection("```\n## Advanced Tips\n\nBody.\n```"),
	}
	doc := CompileGuide(testOutline(), sections)

	if strings.Contains(doc, "```") {
		t.Errorf("compiled document contains residual fence markers:\n%s", doc)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Title\n\nA paragraph with **bold** text.\n")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<h1>") {
		t.Errorf("missing <h1> in rendered HTML: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("missing bold text in rendered HTML: %q", html)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
