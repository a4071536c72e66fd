package tracking

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"guidecraft/pkg/colors"
)

const progressBarWidth = 30

// ProgressTracker prints section-by-section progress for the writing
// phase. Output is plain terminal text, not structured logging.
type ProgressTracker struct {
	mu        sync.Mutex
	total     int
	completed int
	out       io.Writer
}

// NewProgressTracker reports over out (os.Stdout when nil) for a run of
// total sections.
func NewProgressTracker(total int, out io.Writer) *ProgressTracker {
	if out == nil {
		out = os.Stdout
	}
	return &ProgressTracker{total: total, out: out}
}

// StartSection announces the nth section (1-based).
func (p *ProgressTracker) StartSection(n int, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n%s%s Section %d/%d: %s%s\n",
		colors.Cyan, colors.IconRunning, n, p.total, title, colors.Reset)
}

// UpdateSectionProgress prints an intermediate status line for the
// section in flight.
func (p *ProgressTracker) UpdateSectionProgress(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "  %s%s%s\n", colors.Dim, status, colors.Reset)
}

// CompleteSection marks one section done and redraws the overall bar.
func (p *ProgressTracker) CompleteSection(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
	percent := 0.0
	if p.total > 0 {
		percent = float64(p.completed) / float64(p.total) * 100
	}

	filled := 0
	if p.total > 0 {
		filled = p.completed * progressBarWidth / p.total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	fmt.Fprintf(p.out, "%s%s Completed: %s%s\n", colors.Green, colors.IconSuccess, title, colors.Reset)
	fmt.Fprintf(p.out, "  %s[%s]%s %.1f%% (%d/%d sections)\n",
		colors.Blue, bar, colors.Reset, percent, p.completed, p.total)
}

// Completed reports how many sections finished so far.
func (p *ProgressTracker) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}
