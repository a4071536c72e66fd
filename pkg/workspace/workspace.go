// Package workspace manages the output and logs directories for a
// pipeline run and derives the deterministic artifact filenames.
package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	OutlineFileName = "guide_outline.json"
	RunReportName   = "run-report.md"
)

type Workspace struct {
	OutputDir string
	LogsDir   string
	RunID     string
	startedAt time.Time
}

// GenerateRunID creates YYYYMMDD-HHMMSS-{4 hex bytes}
func GenerateRunID() string {
	now := time.Now()
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// Fallback: use nanoseconds if crypto/rand fails
		return fmt.Sprintf("%s-%08x", now.Format("20060102-150405"), now.UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), hex.EncodeToString(b))
}

// New creates both directories if needed and assigns a fresh run ID.
func New(outputDir, logsDir string) (*Workspace, error) {
	for _, dir := range []string{outputDir, logsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return &Workspace{
		OutputDir: outputDir,
		LogsDir:   logsDir,
		RunID:     GenerateRunID(),
		startedAt: time.Now(),
	}, nil
}

// OutlinePath is the fixed location of the outline artifact.
func (w *Workspace) OutlinePath() string {
	return filepath.Join(w.OutputDir, OutlineFileName)
}

// GuidePath derives the guide's output path from topic and audience.
func (w *Workspace) GuidePath(topic, audience string) string {
	return filepath.Join(w.OutputDir, BuildFilename(topic, audience, "md"))
}

// HTMLPreviewPath derives the optional HTML preview path.
func (w *Workspace) HTMLPreviewPath(topic, audience string) string {
	return filepath.Join(w.OutputDir, BuildFilename(topic, audience, "html"))
}

// MetricsPath is the performance-metrics artifact for this run's topic.
func (w *Workspace) MetricsPath(topic, audience string) string {
	return filepath.Join(w.LogsDir, Slug(topic)+"-"+audience+"_metrics.json")
}

// CostEstimatePath follows the *_cost_estimate.json naming relied on by
// the monitor and the usage checker.
func (w *Workspace) CostEstimatePath(topic, audience string) string {
	return filepath.Join(w.LogsDir, Slug(topic)+"-"+audience+"_cost_estimate.json")
}

// SessionLogPath is the per-run session log file.
func (w *Workspace) SessionLogPath() string {
	return filepath.Join(w.LogsDir, fmt.Sprintf("guide_creation_%s.log", w.startedAt.Format("20060102_150405")))
}

// MonitorLogPath is the activity log written by the monitor.
func (w *Workspace) MonitorLogPath() string {
	return filepath.Join(w.LogsDir, fmt.Sprintf("monitor_%s.log", w.startedAt.Format("20060102_150405")))
}

// RunReportPath is the post-run markdown report.
func (w *Workspace) RunReportPath() string {
	return filepath.Join(w.LogsDir, RunReportName)
}
