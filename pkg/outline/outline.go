// Package outline defines the structured guide outline produced by a
// single LLM call before any section content is written.
package outline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Section is one titled unit of guide content. Order within a
// GuideOutline is significant: it fixes both generation order and final
// document order.
type Section struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GuideOutline is the structured plan for a guide. It is produced once
// per run and immutable thereafter.
type GuideOutline struct {
	Title          string    `json:"title"`
	Introduction   string    `json:"introduction"`
	TargetAudience string    `json:"target_audience"`
	Sections       []Section `json:"sections"`
	Conclusion     string    `json:"conclusion"`
}

// MalformedError reports an LLM response that could not be parsed into a
// valid outline. It is fatal: the pipeline never retries outline
// generation.
type MalformedError struct {
	Raw string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed outline response: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Parse decodes an LLM response into a validated GuideOutline. A stray
// code fence around the JSON body is tolerated; anything else that fails
// to decode or validate yields a MalformedError.
func Parse(raw string) (*GuideOutline, error) {
	body := stripFence(strings.TrimSpace(raw))

	var o GuideOutline
	if err := json.Unmarshal([]byte(body), &o); err != nil {
		return nil, &MalformedError{Raw: raw, Err: err}
	}
	if err := o.Validate(); err != nil {
		return nil, &MalformedError{Raw: raw, Err: err}
	}
	return &o, nil
}

// Validate checks the outline shape: non-empty title, at least one
// section, and section titles that are non-empty and unique.
func (o *GuideOutline) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("outline has no title")
	}
	if len(o.Sections) == 0 {
		return fmt.Errorf("outline has no sections")
	}
	seen := make(map[string]bool, len(o.Sections))
	for i, s := range o.Sections {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			return fmt.Errorf("section %d has no title", i+1)
		}
		if seen[title] {
			return fmt.Errorf("duplicate section title %q", title)
		}
		seen[title] = true
	}
	return nil
}

// Save writes the outline as indented JSON.
func (o *GuideOutline) Save(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResponseSchema returns the JSON schema sent with the structured
// outline request. All properties are required and additional properties
// are rejected, per the strict structured-output contract.
func ResponseSchema() map[string]interface{} {
	sectionSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Title of the section",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Brief description of what the section should cover",
			},
		},
		"required":             []string{"title", "description"},
		"additionalProperties": false,
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Title of the guide",
			},
			"introduction": map[string]interface{}{
				"type":        "string",
				"description": "Introduction to the topic",
			},
			"target_audience": map[string]interface{}{
				"type":        "string",
				"description": "Description of the target audience",
			},
			"sections": map[string]interface{}{
				"type":        "array",
				"description": "List of sections in the guide",
				"items":       sectionSchema,
			},
			"conclusion": map[string]interface{}{
				"type":        "string",
				"description": "Conclusion or summary of the guide",
			},
		},
		"required": []string{
			"title", "introduction", "target_audience", "sections", "conclusion",
		},
		"additionalProperties": false,
	}
}

// stripFence removes a ``` or ```json wrapper if the whole body is
// fenced. Some models wrap structured output despite the schema.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return s
}
