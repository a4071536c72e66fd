// Package crew runs the two-agent writing pass for one guide section: a
// writer task drafts the section, then a reviewer task improves it for
// clarity and continuity with the sections already written.
package crew

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"guidecraft/pkg/llm"
	"guidecraft/pkg/phoenix"
	"guidecraft/pkg/tracking"
)

// Result carries the raw text produced by a kickoff.
type Result struct {
	Raw string
}

// Crew produces one section's content from the kickoff inputs. Expected
// input keys: section_title, section_description, audience_level,
// previous_sections, draft_content.
type Crew interface {
	Kickoff(ctx context.Context, inputs map[string]string) (*Result, error)
}

const writerSystemPrompt = `You are an Educational Content Writer. You create engaging,
informative content that thoroughly explains the assigned topic and
provides valuable insights to the reader. You write in clear, accessible
markdown.`

const reviewerSystemPrompt = `You are an Educational Content Reviewer and Editor. You ensure
content is accurate, comprehensive, well structured, and consistent with
the sections that came before it.`

// ContentCrew is the production crew backed by an LLM client. Each task
// is traced as a span and its cost recorded when an estimator is set.
type ContentCrew struct {
	client llm.Client
	costs  *tracking.CostEstimator
}

// NewContentCrew wires the crew to a client. costs may be nil.
func NewContentCrew(client llm.Client, costs *tracking.CostEstimator) *ContentCrew {
	return &ContentCrew{client: client, costs: costs}
}

// Kickoff drafts the section and then reviews the draft. The reviewer's
// output is the result.
func (c *ContentCrew) Kickoff(ctx context.Context, inputs map[string]string) (*Result, error) {
	draft, err := c.runTask(ctx, "write_section_task", writerSystemPrompt, writerPrompt(inputs))
	if err != nil {
		return nil, fmt.Errorf("writer task: %w", err)
	}

	reviewed, err := c.runTask(ctx, "review_section_task", reviewerSystemPrompt, reviewerPrompt(inputs, draft))
	if err != nil {
		return nil, fmt.Errorf("reviewer task: %w", err)
	}

	return &Result{Raw: reviewed}, nil
}

func (c *ContentCrew) runTask(ctx context.Context, task, system, user string) (string, error) {
	ctx, span := phoenix.Tracer().Start(ctx, task, trace.WithAttributes(
		attribute.String("llm.model", c.client.Model()),
	))
	defer span.End()

	messages := []llm.Message{
		llm.SystemMessage(system),
		llm.UserMessage(user),
	}
	output, err := c.client.Complete(ctx, messages)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	if c.costs != nil {
		c.costs.EstimateCallCost(c.client.Model(), system+user, output)
	}
	span.SetAttributes(attribute.Int("llm.output_chars", len(output)))
	return output, nil
}

func writerPrompt(inputs map[string]string) string {
	return fmt.Sprintf(`Write a comprehensive section on the topic: %s

Section description: %s

Target audience: %s level learners

Your content should:
1. Begin with a brief introduction to the section topic
2. Explain all key concepts clearly with examples
3. Include practical applications or exercises where appropriate
4. End with a summary of key points
5. Be approximately 500-800 words in length

Format your content in markdown with appropriate headings, lists, and emphasis.

Previously written sections:
%s

Make sure your content maintains consistency with previously written
sections and builds upon concepts that have already been explained.`,
		inputs["section_title"], inputs["section_description"],
		inputs["audience_level"], inputs["previous_sections"])
}

func reviewerPrompt(inputs map[string]string, draft string) string {
	return fmt.Sprintf(`Review and improve the following section on "%s":

%s

Target audience: %s level learners

Previously written sections:
%s

Your review should:
1. Fix any grammatical or spelling errors
2. Improve clarity and readability
3. Ensure content is comprehensive and accurate
4. Verify consistency with previously written sections
5. Enhance the structure and flow
6. Add any missing key information

Provide the improved version of the section in markdown format.`,
		inputs["section_title"], draft,
		inputs["audience_level"], inputs["previous_sections"])
}
