package tracking

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"guidecraft/pkg/colors"
)

// StepRecord is one completed pipeline step.
type StepRecord struct {
	Name       string    `json:"name"`
	Duration   float64   `json:"duration"`
	ResultSize int       `json:"result_size"`
	Timestamp  time.Time `json:"timestamp"`
}

// PerfSummary is the snapshot shape flushed to *_metrics.json.
type PerfSummary struct {
	TotalDuration   float64      `json:"total_duration"`
	TotalSteps      int          `json:"total_steps"`
	Steps           []StepRecord `json:"steps"`
	AverageStepTime float64      `json:"average_step_time"`
}

type openStep struct {
	name    string
	started time.Time
}

// PerformanceTracker times pipeline steps. Steps nest: StartStep pushes
// onto a stack and EndStep closes the most recent open step. Ending
// with no step open is an error.
type PerformanceTracker struct {
	mu      sync.Mutex
	started time.Time
	open    []openStep
	steps   []StepRecord
	now     func() time.Time
	out     io.Writer
}

// NewPerformanceTracker starts the run clock immediately. Step
// announcements go to out (os.Stdout when nil).
func NewPerformanceTracker(out io.Writer) *PerformanceTracker {
	if out == nil {
		out = os.Stdout
	}
	return newPerformanceTracker(time.Now, out)
}

func newPerformanceTracker(now func() time.Time, out io.Writer) *PerformanceTracker {
	return &PerformanceTracker{started: now(), now: now, out: out}
}

// StartStep opens a step. details is optional context for the status
// line.
func (p *PerformanceTracker) StartStep(name, details string) {
	p.mu.Lock()
	p.open = append(p.open, openStep{name: name, started: p.now()})
	p.mu.Unlock()

	fmt.Fprintf(p.out, "%s%s Starting: %s%s\n", colors.Dim, colors.IconPending, name, colors.Reset)
	if details != "" {
		fmt.Fprintf(p.out, "%s   Details: %s%s\n", colors.Dim, details, colors.Reset)
	}
}

// EndStep closes the most recently opened step and records its duration,
// result size and completion timestamp. The name must match the open
// step.
func (p *PerformanceTracker) EndStep(name string, resultSize int) error {
	p.mu.Lock()

	if len(p.open) == 0 {
		p.mu.Unlock()
		return fmt.Errorf("ending step %q with no step open", name)
	}
	top := p.open[len(p.open)-1]
	if top.name != name {
		p.mu.Unlock()
		return fmt.Errorf("ending step %q but %q is open", name, top.name)
	}
	p.open = p.open[:len(p.open)-1]

	ended := p.now()
	duration := ended.Sub(top.started).Seconds()
	p.steps = append(p.steps, StepRecord{
		Name:       name,
		Duration:   duration,
		ResultSize: resultSize,
		Timestamp:  ended,
	})
	p.mu.Unlock()

	fmt.Fprintf(p.out, "%s%s Completed: %s (%.2fs)%s\n", colors.Dim, colors.IconSuccess, name, duration, colors.Reset)
	if resultSize > 0 {
		fmt.Fprintf(p.out, "%s   Output size: %d characters%s\n", colors.Dim, resultSize, colors.Reset)
	}
	return nil
}

// Summary returns the run snapshot: elapsed wall time since the tracker
// was created plus all completed steps. Open steps are not included.
func (p *PerformanceTracker) Summary() PerfSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	steps := make([]StepRecord, len(p.steps))
	copy(steps, p.steps)

	avg := 0.0
	if len(steps) > 0 {
		sum := 0.0
		for _, s := range steps {
			sum += s.Duration
		}
		avg = sum / float64(len(steps))
	}
	return PerfSummary{
		TotalDuration:   p.now().Sub(p.started).Seconds(),
		TotalSteps:      len(steps),
		Steps:           steps,
		AverageStepTime: avg,
	}
}

// Save writes the summary as indented JSON.
func (p *PerformanceTracker) Save(path string) error {
	data, err := json.MarshalIndent(p.Summary(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
