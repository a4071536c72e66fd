package tracking

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeClock advances only when told to, so durations are exact.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestPerformanceTracker_StepDuration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
	tracker := newPerformanceTracker(clock.Now, io.Discard)

	tracker.StartStep("create_outline", "")
	clock.Advance(2 * time.Second)
	if err := tracker.EndStep("create_outline", 512); err != nil {
		t.Fatalf("EndStep: %v", err)
	}

	sum := tracker.Summary()
	if sum.TotalSteps != 1 {
		t.Fatalf("TotalSteps = %d, want 1", sum.TotalSteps)
	}
	step := sum.Steps[0]
	if step.Name != "create_outline" {
		t.Errorf("Name = %q", step.Name)
	}
	if math.Abs(step.Duration-2.0) > 1e-9 {
		t.Errorf("Duration = %v, want 2.0", step.Duration)
	}
	if step.ResultSize != 512 {
		t.Errorf("ResultSize = %d, want 512", step.ResultSize)
	}
	if !step.Timestamp.Equal(time.Date(2026, 1, 2, 10, 0, 2, 0, time.UTC)) {
		t.Errorf("Timestamp = %v, want completion time", step.Timestamp)
	}
	if math.Abs(sum.AverageStepTime-2.0) > 1e-9 {
		t.Errorf("AverageStepTime = %v, want 2.0", sum.AverageStepTime)
	}
}

func TestPerformanceTracker_StartStepDetails(t *testing.T) {
	var buf bytes.Buffer
	tracker := newPerformanceTracker(time.Now, &buf)

	tracker.StartStep("create_outline", "structured outline call")
	out := buf.String()
	if !strings.Contains(out, "Starting: create_outline") {
		t.Errorf("missing start announcement:\n%s", out)
	}
	if !strings.Contains(out, "Details: structured outline call") {
		t.Errorf("missing details line:\n%s", out)
	}

	buf.Reset()
	tracker.StartStep("write_section", "")
	if strings.Contains(buf.String(), "Details:") {
		t.Errorf("empty details printed a details line:\n%s", buf.String())
	}
}

func TestPerformanceTracker_NestedSteps(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
	tracker := newPerformanceTracker(clock.Now, io.Discard)

	tracker.StartStep("write_guide", "")
	clock.Advance(time.Second)
	tracker.StartStep("write_section", "")
	clock.Advance(3 * time.Second)
	if err := tracker.EndStep("write_section", 100); err != nil {
		t.Fatalf("EndStep inner: %v", err)
	}
	clock.Advance(time.Second)
	if err := tracker.EndStep("write_guide", 400); err != nil {
		t.Fatalf("EndStep outer: %v", err)
	}

	sum := tracker.Summary()
	if sum.TotalSteps != 2 {
		t.Fatalf("TotalSteps = %d, want 2", sum.TotalSteps)
	}
	// Inner step completes first.
	if sum.Steps[0].Name != "write_section" || math.Abs(sum.Steps[0].Duration-3.0) > 1e-9 {
		t.Errorf("inner step = %+v", sum.Steps[0])
	}
	if sum.Steps[1].Name != "write_guide" || math.Abs(sum.Steps[1].Duration-5.0) > 1e-9 {
		t.Errorf("outer step = %+v", sum.Steps[1])
	}
	if math.Abs(sum.TotalDuration-5.0) > 1e-9 {
		t.Errorf("TotalDuration = %v, want 5.0", sum.TotalDuration)
	}
}

func TestPerformanceTracker_EndWithoutOpen(t *testing.T) {
	tracker := NewPerformanceTracker(io.Discard)
	if err := tracker.EndStep("phantom", 0); err == nil {
		t.Error("expected error ending a step with none open")
	}
}

func TestPerformanceTracker_EndMismatchedName(t *testing.T) {
	tracker := NewPerformanceTracker(io.Discard)
	tracker.StartStep("real_step", "")
	if err := tracker.EndStep("other_step", 0); err == nil {
		t.Error("expected error ending a step with the wrong name")
	}
	// The real step is still open and can be closed.
	if err := tracker.EndStep("real_step", 10); err != nil {
		t.Errorf("EndStep after mismatch: %v", err)
	}
}

func TestPerformanceTracker_OpenStepsExcluded(t *testing.T) {
	tracker := NewPerformanceTracker(io.Discard)
	tracker.StartStep("in_flight", "")
	if sum := tracker.Summary(); sum.TotalSteps != 0 {
		t.Errorf("open step counted in summary: %d", sum.TotalSteps)
	}
}

func TestPerformanceTracker_Save(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
	tracker := newPerformanceTracker(clock.Now, io.Discard)
	tracker.StartStep("create_outline", "")
	clock.Advance(time.Second)
	if err := tracker.EndStep("create_outline", 64); err != nil {
		t.Fatalf("EndStep: %v", err)
	}

	path := filepath.Join(t.TempDir(), "metrics.json")
	if err := tracker.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	// Each saved step carries name, duration, result size and timestamp.
	var decoded struct {
		TotalSteps int                      `json:"total_steps"`
		Steps      []map[string]interface{} `json:"steps"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.TotalSteps != 1 || len(decoded.Steps) != 1 {
		t.Fatalf("decoded summary = %+v", decoded)
	}
	for _, key := range []string{"name", "duration", "result_size", "timestamp"} {
		if _, ok := decoded.Steps[0][key]; !ok {
			t.Errorf("saved step missing key %q: %v", key, decoded.Steps[0])
		}
	}
}
