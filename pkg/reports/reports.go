// Package reports writes the post-run markdown report and provides
// helpers for locating recent run artifacts in the logs directory.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"guidecraft/pkg/tracking"
)

// RunInfo is everything the report needs about a finished run.
type RunInfo struct {
	RunID      string
	Topic      string
	Audience   string
	Duration   time.Duration
	OutputPath string
	Costs      tracking.CostSummary
	Perf       tracking.PerfSummary
}

// WriteRunReport renders the run as markdown at path.
func WriteRunReport(path string, info RunInfo) error {
	var sb strings.Builder

	sb.WriteString("# Run Report\n\n")
	sb.WriteString(fmt.Sprintf("**Run ID:** %s  \n", info.RunID))
	sb.WriteString(fmt.Sprintf("**Topic:** %s  \n", info.Topic))
	sb.WriteString(fmt.Sprintf("**Audience:** %s  \n", info.Audience))
	sb.WriteString(fmt.Sprintf("**Duration:** %s  \n", info.Duration.Round(time.Second)))
	sb.WriteString(fmt.Sprintf("**Estimated Cost:** $%.4f (%d API calls)  \n", info.Costs.TotalEstimatedCost, info.Costs.TotalAPICalls))
	sb.WriteString(fmt.Sprintf("**Output:** %s\n\n", info.OutputPath))

	sb.WriteString("## Steps\n\n")
	sb.WriteString("| # | Step | Duration | Result Size |\n")
	sb.WriteString("|---|------|----------|-------------|\n")
	for i, step := range info.Perf.Steps {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.2fs | %d |\n",
			i+1, step.Name, step.Duration, step.ResultSize))
	}
	sb.WriteString(fmt.Sprintf("\nAverage step time: %.2fs over %d steps.\n",
		info.Perf.AverageStepTime, info.Perf.TotalSteps))

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// FindNewest returns the most recently modified file from a list of
// paths, or "" when none exist.
func FindNewest(files []string) string {
	var newestFile string
	var newestTime time.Time

	for _, file := range files {
		if info, err := os.Stat(file); err == nil {
			if info.ModTime().After(newestTime) {
				newestTime = info.ModTime()
				newestFile = file
			}
		}
	}

	return newestFile
}

// RecentArtifacts lists up to limit files matching pattern under dir,
// newest first.
func RecentArtifacts(dir, pattern string, limit int) []string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return nil
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}
	var files []fileInfo
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil {
			files = append(files, fileInfo{path: match, modTime: info.ModTime()})
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	if limit > len(files) {
		limit = len(files)
	}
	paths := make([]string, 0, limit)
	for _, f := range files[:limit] {
		paths = append(paths, f.path)
	}
	return paths
}
