package envelope

import (
	"testing"
)

func TestNew(t *testing.T) {
	b := New()
	if b == nil {
		t.Fatal("New() returned nil")
	}
	if b.env == nil {
		t.Error("builder envelope is nil")
	}
	if b.env.Result == nil {
		t.Error("Result map should be initialized")
	}
}

func TestBuilder_Success(t *testing.T) {
	env := New().Success().Build()

	if env.Status != StatusSuccess {
		t.Errorf("expected StatusSuccess, got %s", env.Status)
	}
}

func TestBuilder_Failure(t *testing.T) {
	env := New().Failure("MALFORMED_OUTLINE", "response is not valid JSON").Build()

	if env.Status != StatusFailure {
		t.Errorf("expected StatusFailure, got %s", env.Status)
	}
	if env.Error == nil {
		t.Fatal("expected Error to be set")
	}
	if env.Error.Code != "MALFORMED_OUTLINE" {
		t.Errorf("expected error code 'MALFORMED_OUTLINE', got %s", env.Error.Code)
	}
	if env.Error.Message != "response is not valid JSON" {
		t.Errorf("expected error message, got %s", env.Error.Message)
	}
}

func TestBuilder_WithResult(t *testing.T) {
	env := New().
		Success().
		WithResult("sections", 5).
		WithResult("topic", "quantum computing").
		Build()

	if env.Result["sections"] != 5 {
		t.Errorf("expected sections=5, got %v", env.Result["sections"])
	}
	if env.Result["topic"] != "quantum computing" {
		t.Errorf("expected topic='quantum computing', got %v", env.Result["topic"])
	}
}

func TestBuilder_WithStage(t *testing.T) {
	env := New().WithStage("create_guide_outline").Build()

	if env.Metrics == nil {
		t.Fatal("expected Metrics to be initialized")
	}
	if env.Metrics.Stage != "create_guide_outline" {
		t.Errorf("expected stage='create_guide_outline', got %s", env.Metrics.Stage)
	}
}

func TestBuilder_Chaining(t *testing.T) {
	env := New().
		WithStage("write_and_compile_guide").
		WithDuration(2000).
		WithOutputRef("output/go-basics-beginner-guide.md").
		WithResult("total_cost_usd", 0.0075).
		Success().
		Build()

	if env.Status != StatusSuccess {
		t.Errorf("status: got %s, want success", env.Status)
	}
	if env.Metrics.Stage != "write_and_compile_guide" {
		t.Errorf("stage: got %s, want write_and_compile_guide", env.Metrics.Stage)
	}
	if env.Metrics.DurationMs != 2000 {
		t.Errorf("duration: got %d, want 2000", env.Metrics.DurationMs)
	}
	if env.OutputRef != "output/go-basics-beginner-guide.md" {
		t.Errorf("output_ref: got %s", env.OutputRef)
	}
	if env.Result["total_cost_usd"] != 0.0075 {
		t.Errorf("result[total_cost_usd]: got %v, want 0.0075", env.Result["total_cost_usd"])
	}
}

func TestBuilder_MetricsReused(t *testing.T) {
	// Calling WithStage or WithDuration multiple times should use same Metrics
	env := New().
		WithStage("outline").
		WithDuration(100).
		WithStage("compile").
		WithDuration(200).
		Build()

	if env.Metrics.Stage != "compile" {
		t.Errorf("expected last stage 'compile', got %s", env.Metrics.Stage)
	}
	if env.Metrics.DurationMs != 200 {
		t.Errorf("expected last duration 200, got %d", env.Metrics.DurationMs)
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusSuccess != "success" {
		t.Errorf("StatusSuccess = %q, want 'success'", StatusSuccess)
	}
	if StatusFailure != "failure" {
		t.Errorf("StatusFailure = %q, want 'failure'", StatusFailure)
	}
	if StatusPartial != "partial" {
		t.Errorf("StatusPartial = %q, want 'partial'", StatusPartial)
	}
	if StatusSkipped != "skipped" {
		t.Errorf("StatusSkipped = %q, want 'skipped'", StatusSkipped)
	}
}
