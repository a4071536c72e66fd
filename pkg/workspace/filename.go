package workspace

import (
	"fmt"
	"regexp"
	"strings"
)

// maxSlugLen caps the slug portion of generated filenames.
const maxSlugLen = 50

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	slugRuns     = regexp.MustCompile(`[\s-]+`)
)

// Slug turns free text into a lower-case hyphenated slug: characters
// outside word chars, whitespace and hyphens are stripped, runs of
// whitespace/hyphens collapse to a single hyphen, and the result is
// trimmed and truncated to 50 characters (dropping a trailing hyphen if
// the cut lands on one). Deterministic; distinct inputs can collide.
func Slug(text string) string {
	s := strings.ToLower(text)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

// BuildFilename derives the deterministic guide filename
// {slug}-{audience}-guide.{ext} from a free-text topic.
func BuildFilename(topic, audience, ext string) string {
	if ext == "" {
		ext = "md"
	}
	return fmt.Sprintf("%s-%s-guide.%s", Slug(topic), audience, ext)
}
