// Package content normalizes LLM-generated markdown and assembles the
// final guide document.
package content

import (
	"regexp"
	"strings"
)

// Meta-comments are generated sentences that refer to the act of writing
// or revising itself. Matched case-insensitively against each trimmed
// line.
var metaCommentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^This .*section.*maintains.*$`),
	regexp.MustCompile(`(?i)^This .*version.*enhances.*$`),
	regexp.MustCompile(`(?i)^This .*content.*provides.*$`),
	regexp.MustCompile(`(?i)^This .*improved.*section.*$`),
	regexp.MustCompile(`(?i)^The .*section.*has been.*$`),
	regexp.MustCompile(`(?i)^Here.*improved.*version.*$`),
	regexp.MustCompile(`(?i)^This .*revision.*$`),
}

var (
	openingFence = regexp.MustCompile("(?m)^```(?:markdown)?\\s*\n")
	closingFence = regexp.MustCompile("(?m)\n```\\s*$")
)

// CleanSection normalizes one section of LLM-generated markdown: strips
// code-fence wrappers, drops meta-comment lines, demotes a stray
// top-level heading to second level, collapses blank-line runs, and
// trims surrounding whitespace. Pure and idempotent:
// CleanSection(CleanSection(x)) == CleanSection(x).
func CleanSection(raw string) string {
	content := openingFence.ReplaceAllString(raw, "")
	content = closingFence.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isMetaComment(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}

	content = strings.TrimSpace(strings.Join(kept, "\n"))
	lines = strings.Split(content, "\n")
	if len(lines) > 0 {
		first := strings.TrimSpace(lines[0])
		if strings.HasPrefix(first, "# ") && !strings.HasPrefix(first, "## ") {
			lines[0] = "#" + lines[0]
		}
	}

	return strings.TrimSpace(collapseBlankLines(lines))
}

func isMetaComment(line string) bool {
	for _, p := range metaCommentPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// collapseBlankLines joins lines, reducing any run of blank
// (whitespace-only) lines to a single empty line.
func collapseBlankLines(lines []string) string {
	var b strings.Builder
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank = true
			continue
		}
		if b.Len() > 0 {
			if blank {
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(line)
		blank = false
	}
	return b.String()
}
