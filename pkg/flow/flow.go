// Package flow drives the guide creation pipeline: collect input,
// generate the outline with one structured LLM call, write every
// section through the content crew, and compile the final document.
package flow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/content"
	"guidecraft/pkg/crew"
	"guidecraft/pkg/envelope"
	"guidecraft/pkg/llm"
	"guidecraft/pkg/outline"
	"guidecraft/pkg/phoenix"
	"guidecraft/pkg/reports"
	"guidecraft/pkg/settings"
	"guidecraft/pkg/tracking"
	"guidecraft/pkg/workspace"
)

// Error codes carried in failure envelopes.
const (
	CodeConfigError      = "CONFIG_ERROR"
	CodeInputError       = "INPUT_ERROR"
	CodeMalformedOutline = "MALFORMED_OUTLINE"
	CodeSectionFailed    = "SECTION_FAILED"
	CodeWriteFailed      = "WRITE_FAILED"
)

// Valid audience levels, in prompt order.
var audienceLevels = []string{"beginner", "intermediate", "advanced"}

// State is the per-run pipeline state. SectionsContent keys are a
// subset of the outline's section titles.
type State struct {
	Topic           string
	AudienceLevel   string
	Outline         *outline.GuideOutline
	SectionsContent map[string]string
}

// Config wires the pipeline's collaborators. Workspace, Client and Crew
// are required; the remaining zero-value fields get working defaults in
// New, so tests can inject only what they observe.
type Config struct {
	Settings  *settings.Settings
	Client    llm.Client
	Crew      crew.Crew
	Workspace *workspace.Workspace
	Logger    *zap.Logger
	Costs     *tracking.CostEstimator
	Perf      *tracking.PerformanceTracker

	Input  io.Reader // interactive prompts read from here
	Output io.Writer // user-facing progress text goes here

	HTMLPreview bool

	// Preset inputs skip the interactive prompts when non-empty.
	Topic    string
	Audience string
}

// Flow is one pipeline run.
type Flow struct {
	cfg   Config
	state State
}

// New fills Config defaults and returns a runnable flow.
func New(cfg Config) *Flow {
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Costs == nil {
		cfg.Costs = tracking.NewCostEstimator(cfg.Output)
	}
	if cfg.Perf == nil {
		cfg.Perf = tracking.NewPerformanceTracker(cfg.Output)
	}
	return &Flow{
		cfg:   cfg,
		state: State{SectionsContent: make(map[string]string)},
	}
}

// Run executes the pipeline end to end and always returns an envelope.
// Any stage error aborts the run; no partial guide file is written.
func (f *Flow) Run(ctx context.Context) *envelope.Envelope {
	started := time.Now()

	if f.cfg.Workspace == nil {
		return f.failure("configuration", CodeConfigError,
			fmt.Errorf("flow config: Workspace is required"), started)
	}

	if err := f.collectInput(); err != nil {
		return f.failure("collect_input", CodeInputError, err, started)
	}

	if err := f.createOutline(ctx); err != nil {
		return f.failure("create_guide_outline", CodeMalformedOutline, err, started)
	}

	guidePath, err := f.writeAndCompileGuide(ctx)
	if err != nil {
		return f.failure("write_and_compile_guide", CodeSectionFailed, err, started)
	}

	f.flushArtifacts(guidePath, time.Since(started))

	fmt.Fprintf(f.cfg.Output, "\n%s=== Flow Complete ===%s\n", colors.Bold, colors.Reset)
	fmt.Fprintf(f.cfg.Output, "Your comprehensive guide is ready in the output directory.\n")
	fmt.Fprintf(f.cfg.Output, "Open %s to view it.\n", guidePath)

	costs := f.cfg.Costs.Summary()
	return envelope.New().
		Success().
		WithStage("guide_creation").
		WithResult("topic", f.state.Topic).
		WithResult("audience_level", f.state.AudienceLevel).
		WithResult("sections", len(f.state.Outline.Sections)).
		WithResult("total_estimated_cost", costs.TotalEstimatedCost).
		WithResult("total_api_calls", costs.TotalAPICalls).
		WithOutputRef(guidePath).
		WithDuration(time.Since(started).Milliseconds()).
		Build()
}

func (f *Flow) failure(stage, code string, err error, started time.Time) *envelope.Envelope {
	f.cfg.Logger.Error("pipeline stage failed", zap.String("stage", stage), zap.Error(err))
	fmt.Fprintf(f.cfg.Output, "%s%s %s failed: %v%s\n",
		colors.Red, colors.IconFailure, stage, err, colors.Reset)
	return envelope.New().
		WithStage(stage).
		Failure(code, err.Error()).
		WithDuration(time.Since(started).Milliseconds()).
		Build()
}

// collectInput fills topic and audience from presets or interactive
// prompts. An empty topic re-prompts rather than proceeding.
func (f *Flow) collectInput() error {
	if f.cfg.Topic != "" && f.cfg.Audience != "" {
		audience := strings.ToLower(f.cfg.Audience)
		if !validAudience(audience) {
			return fmt.Errorf("invalid audience level %q (want beginner, intermediate or advanced)", f.cfg.Audience)
		}
		f.state.Topic = f.cfg.Topic
		f.state.AudienceLevel = audience
		fmt.Fprintf(f.cfg.Output, "\nCreating a guide on %s for %s audience...\n\n",
			f.state.Topic, f.state.AudienceLevel)
		return nil
	}

	fmt.Fprintf(f.cfg.Output, "\n%s=== Create Your Comprehensive Guide ===%s\n\n", colors.Bold, colors.Reset)
	scanner := bufio.NewScanner(f.cfg.Input)

	for {
		fmt.Fprint(f.cfg.Output, "What topic would you like to create a guide for? ")
		if !scanner.Scan() {
			return fmt.Errorf("input closed before a topic was entered")
		}
		topic := strings.TrimSpace(scanner.Text())
		if topic != "" {
			f.state.Topic = topic
			break
		}
		fmt.Fprintln(f.cfg.Output, "Please enter a topic.")
	}

	for {
		fmt.Fprint(f.cfg.Output, "Who is your target audience? (beginner/intermediate/advanced) ")
		if !scanner.Scan() {
			return fmt.Errorf("input closed before an audience level was entered")
		}
		audience := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if validAudience(audience) {
			f.state.AudienceLevel = audience
			break
		}
		fmt.Fprintln(f.cfg.Output, "Please enter 'beginner', 'intermediate', or 'advanced'")
	}

	fmt.Fprintf(f.cfg.Output, "\nCreating a guide on %s for %s audience...\n\n",
		f.state.Topic, f.state.AudienceLevel)
	return nil
}

func validAudience(level string) bool {
	for _, a := range audienceLevels {
		if level == a {
			return true
		}
	}
	return false
}

// createOutline makes the single structured LLM call and persists the
// parsed outline. A malformed response is fatal; there is no retry.
func (f *Flow) createOutline(ctx context.Context) error {
	ctx, span := phoenix.Tracer().Start(ctx, "create_guide_outline")
	defer span.End()

	fmt.Fprintln(f.cfg.Output, "Creating guide outline...")
	f.cfg.Logger.Info("creating guide outline",
		zap.String("topic", f.state.Topic),
		zap.String("audience", f.state.AudienceLevel))

	prompt := outlinePrompt(f.state.Topic, f.state.AudienceLevel)
	messages := []llm.Message{
		llm.SystemMessage("You are a helpful assistant designed to output JSON."),
		llm.UserMessage(prompt),
	}
	schema := llm.Schema{
		Name:        "guide_outline",
		Description: "Structured outline for a comprehensive guide",
		Definition:  outline.ResponseSchema(),
	}

	f.cfg.Perf.StartStep("create_outline", f.state.Topic)
	response, err := f.cfg.Client.CompleteStructured(ctx, messages, schema)
	if err != nil {
		_ = f.cfg.Perf.EndStep("create_outline", 0)
		return fmt.Errorf("outline call: %w", err)
	}
	if err := f.cfg.Perf.EndStep("create_outline", len(response)); err != nil {
		f.cfg.Logger.Warn("step accounting", zap.Error(err))
	}
	f.cfg.Costs.EstimateCallCost(f.cfg.Client.Model(), prompt, response)

	o, err := outline.Parse(response)
	if err != nil {
		return err
	}
	f.state.Outline = o

	if err := o.Save(f.cfg.Workspace.OutlinePath()); err != nil {
		return fmt.Errorf("saving outline: %w", err)
	}

	fmt.Fprintf(f.cfg.Output, "Guide outline created with %d sections\n", len(o.Sections))
	f.cfg.Logger.Info("outline saved",
		zap.String("path", f.cfg.Workspace.OutlinePath()),
		zap.Int("sections", len(o.Sections)))
	return nil
}

func outlinePrompt(topic, audience string) string {
	return fmt.Sprintf(`Create a detailed outline for a comprehensive guide on "%s" for %s level learners.

The outline should include:
1. A compelling title for the guide
2. An introduction to the topic
3. 4-6 main sections that cover the most important aspects of the topic
4. A conclusion or summary

For each section, provide a clear title and a brief description of what it should cover.`, topic, audience)
}

// writeAndCompileGuide runs the crew once per section in outline order,
// folding each cleaned result into the context for the next, then
// compiles and writes the guide. Returns the guide path.
func (f *Flow) writeAndCompileGuide(ctx context.Context) (string, error) {
	ctx, span := phoenix.Tracer().Start(ctx, "write_and_compile_guide")
	defer span.End()

	o := f.state.Outline
	fmt.Fprintln(f.cfg.Output, "Writing guide sections and compiling...")
	progress := tracking.NewProgressTracker(len(o.Sections), f.cfg.Output)

	var completed []string
	for i, section := range o.Sections {
		progress.StartSection(i+1, section.Title)

		previous := previousSectionsText(completed, f.state.SectionsContent)
		inputs := map[string]string{
			"section_title":       section.Title,
			"section_description": section.Description,
			"audience_level":      f.state.AudienceLevel,
			"previous_sections":   previous,
			"draft_content":       "",
		}

		f.cfg.Perf.StartStep(section.Title, section.Description)
		progress.UpdateSectionProgress("writing and reviewing draft")
		result, err := f.cfg.Crew.Kickoff(ctx, inputs)
		if err != nil {
			_ = f.cfg.Perf.EndStep(section.Title, 0)
			return "", fmt.Errorf("section %q: %w", section.Title, err)
		}

		progress.UpdateSectionProgress("cleaning content")
		cleaned := content.CleanSection(result.Raw)
		if err := f.cfg.Perf.EndStep(section.Title, len(cleaned)); err != nil {
			f.cfg.Logger.Warn("step accounting", zap.Error(err))
		}

		f.state.SectionsContent[section.Title] = cleaned
		completed = append(completed, section.Title)
		progress.CompleteSection(section.Title)
		f.cfg.Logger.Info("section completed",
			zap.String("title", section.Title),
			zap.Int("chars", len(cleaned)))
	}

	doc := content.CompileGuide(o, f.state.SectionsContent)
	guidePath := f.cfg.Workspace.GuidePath(f.state.Topic, f.state.AudienceLevel)
	if err := os.WriteFile(guidePath, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("writing guide: %w", err)
	}

	if f.cfg.HTMLPreview {
		html, err := content.RenderHTML(doc)
		if err != nil {
			f.cfg.Logger.Warn("html preview failed", zap.Error(err))
		} else {
			previewPath := f.cfg.Workspace.HTMLPreviewPath(f.state.Topic, f.state.AudienceLevel)
			if err := os.WriteFile(previewPath, []byte(html), 0644); err != nil {
				f.cfg.Logger.Warn("html preview write failed", zap.Error(err))
			} else {
				fmt.Fprintf(f.cfg.Output, "HTML preview saved to %s\n", previewPath)
			}
		}
	}

	fmt.Fprintf(f.cfg.Output, "\nComplete guide compiled and saved to %s\n", guidePath)
	return guidePath, nil
}

// previousSectionsText folds completed sections into the context blob
// handed to the crew for the next section.
func previousSectionsText(completed []string, sections map[string]string) string {
	if len(completed) == 0 {
		return "No previous sections written yet."
	}
	var b strings.Builder
	b.WriteString("# Previously Written Sections\n\n")
	for _, title := range completed {
		fmt.Fprintf(&b, "## %s\n\n", title)
		b.WriteString(sections[title])
		b.WriteString("\n\n")
	}
	return b.String()
}

// flushArtifacts writes the metrics, cost estimate and run report.
// These are advisory outputs; failures are logged, not fatal.
func (f *Flow) flushArtifacts(guidePath string, elapsed time.Duration) {
	ws := f.cfg.Workspace
	topic, audience := f.state.Topic, f.state.AudienceLevel

	if err := f.cfg.Costs.Save(ws.CostEstimatePath(topic, audience)); err != nil {
		f.cfg.Logger.Warn("cost estimate write failed", zap.Error(err))
	}
	if err := f.cfg.Perf.Save(ws.MetricsPath(topic, audience)); err != nil {
		f.cfg.Logger.Warn("metrics write failed", zap.Error(err))
	}

	err := reports.WriteRunReport(ws.RunReportPath(), reports.RunInfo{
		RunID:      ws.RunID,
		Topic:      topic,
		Audience:   audience,
		Duration:   elapsed,
		OutputPath: guidePath,
		Costs:      f.cfg.Costs.Summary(),
		Perf:       f.cfg.Perf.Summary(),
	})
	if err != nil {
		f.cfg.Logger.Warn("run report write failed", zap.Error(err))
	}
}
