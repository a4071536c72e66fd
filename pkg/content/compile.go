package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"guidecraft/pkg/outline"
)

// CompileGuide assembles the final markdown document: title,
// introduction, every section body in outline order, then the
// conclusion. Section bodies are looked up by title; a missing body
// leaves a gap rather than failing, matching write-after-all-sections
// semantics (the flow only compiles once every section succeeded).
func CompileGuide(o *outline.GuideOutline, sections map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", o.Title)
	fmt.Fprintf(&b, "## Introduction\n\n%s\n\n", o.Introduction)

	for _, s := range o.Sections {
		fmt.Fprintf(&b, "%s\n\n", sections[s.Title])
	}

	fmt.Fprintf(&b, "## Conclusion\n\n%s\n\n", o.Conclusion)

	return b.String()
}

// RenderHTML converts compiled guide markdown to an HTML preview.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
