// Package monitor implements the advisory real-time dashboard that runs
// alongside a guide creation process. It watches the output and logs
// directories, tallies cost estimates as they land, and redraws a
// status display on a fixed cadence. It never affects the pipeline.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/logging"
	"guidecraft/pkg/settings"
	"guidecraft/pkg/tracking"
)

const recentActivityLines = 5

// Monitor tracks guide-creation activity in real time.
type Monitor struct {
	mu        sync.Mutex
	outputDir string
	logsDir   string
	cfg       settings.MonitorSettings
	watcher   *fsnotify.Watcher
	out       io.Writer

	logPath string
	logger  *zap.Logger

	started       time.Time
	apiCalls      int
	estimatedCost float64
	seen          map[string]bool

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	// clearScreen is disabled in tests so output stays inspectable.
	clearScreen bool
}

// New prepares a monitor over the given directories. Both directories
// are created if missing; the activity log goes to logs/monitor_<ts>.log.
func New(outputDir, logsDir string, cfg settings.MonitorSettings, out io.Writer) (*Monitor, error) {
	if out == nil {
		out = os.Stdout
	}
	if cfg.DisplayInterval <= 0 {
		cfg.DisplayInterval = settings.DefaultDisplayInterval
	}
	if cfg.ProcessInterval <= 0 {
		cfg.ProcessInterval = settings.DefaultProcessInterval
	}

	for _, dir := range []string{outputDir, logsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for _, dir := range []string{outputDir, logsDir} {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	logPath := filepath.Join(logsDir, fmt.Sprintf("monitor_%s.log", time.Now().Format("20060102_150405")))
	logger, err := logging.NewFileLogger(logPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("opening monitor log: %w", err)
	}

	return &Monitor{
		outputDir:   outputDir,
		logsDir:     logsDir,
		cfg:         cfg,
		watcher:     watcher,
		out:         out,
		logPath:     logPath,
		logger:      logger,
		seen:        map[string]bool{filepath.Base(logPath): true},
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		clearScreen: true,
	}, nil
}

// LogPath reports the monitor's activity log location.
func (m *Monitor) LogPath() string { return m.logPath }

// Run blocks until ctx is cancelled or Stop is called, redrawing the
// display and scanning for activity on the configured cadence.
func (m *Monitor) Run(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.started = time.Now()
	m.mu.Unlock()

	fmt.Fprintf(m.out, "%sGuide Creation Monitor started%s\n", colors.Bold, colors.Reset)
	fmt.Fprintf(m.out, "Monitor log: %s\n", m.logPath)
	fmt.Fprintln(m.out, strings.Repeat("=", 60))

	defer close(m.doneCh)

	displayTicker := time.NewTicker(m.cfg.DisplayInterval)
	defer displayTicker.Stop()
	processTicker := time.NewTicker(m.cfg.ProcessInterval)
	defer processTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.printFinalTotals()
			return
		case <-m.stopCh:
			m.printFinalTotals()
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				m.handleFileEvent(event.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.log(fmt.Sprintf("watch error: %v", err))
		case <-processTicker.C:
			m.scanProcesses()
		case <-displayTicker.C:
			m.updateDisplay()
		}
	}
}

// Stop ends the run loop and closes the watcher and log file.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
	<-m.doneCh

	m.watcher.Close()
	_ = m.logger.Sync()
}

// handleFileEvent records a new artifact and, for cost estimate files,
// folds its totals into the display.
func (m *Monitor) handleFileEvent(path string) {
	name := filepath.Base(path)

	m.mu.Lock()
	first := !m.seen[name]
	m.seen[name] = true
	m.mu.Unlock()

	if first {
		size := int64(0)
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		m.log(fmt.Sprintf("New file: %s (%d bytes)", name, size))
	}

	if strings.HasSuffix(name, "_cost_estimate.json") {
		m.analyzeCostFile(path)
	}
}

// analyzeCostFile reads a cost estimate artifact. Partial writes and
// junk are silently ignored; the next write event retries.
func (m *Monitor) analyzeCostFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var summary tracking.CostSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return
	}

	m.mu.Lock()
	m.apiCalls = summary.TotalAPICalls
	m.estimatedCost = summary.TotalEstimatedCost
	m.mu.Unlock()

	m.log(fmt.Sprintf("Updated metrics: %d calls, $%.4f", summary.TotalAPICalls, summary.TotalEstimatedCost))
}

// scanProcesses looks for running guidecraft processes with pgrep.
// Absence of pgrep is not an error.
func (m *Monitor) scanProcesses() {
	out, err := exec.Command("pgrep", "-f", "guidecraft").Output()
	if err != nil {
		return
	}
	pids := strings.Fields(strings.TrimSpace(string(out)))
	if len(pids) > 0 {
		m.log(fmt.Sprintf("Active guidecraft processes: %d", len(pids)))
	}
}

// updateDisplay redraws the status screen.
func (m *Monitor) updateDisplay() {
	m.mu.Lock()
	runtime := time.Since(m.started)
	apiCalls := m.apiCalls
	cost := m.estimatedCost
	m.mu.Unlock()

	if m.clearScreen {
		fmt.Fprint(m.out, "\033[2J\033[H")
	}

	fmt.Fprintf(m.out, "%sGUIDE CREATION MONITOR - REAL-TIME STATUS%s\n", colors.Bold, colors.Reset)
	fmt.Fprintln(m.out, strings.Repeat("=", 60))
	fmt.Fprintf(m.out, "Runtime:    %.1fs\n", runtime.Seconds())
	fmt.Fprintf(m.out, "API Calls:  %d\n", apiCalls)
	fmt.Fprintf(m.out, "Est. Cost:  $%.4f\n", cost)
	fmt.Fprintf(m.out, "Output Dir: %d files\n", countFiles(m.outputDir))
	fmt.Fprintf(m.out, "Log Dir:    %d files\n", countFiles(m.logsDir))
	fmt.Fprintln(m.out, strings.Repeat("=", 60))
	fmt.Fprintln(m.out, "Press Ctrl+C to stop monitoring")

	if recent := m.recentActivity(); len(recent) > 0 {
		fmt.Fprintf(m.out, "\n%sRecent Activity:%s\n", colors.Cyan, colors.Reset)
		for _, line := range recent {
			fmt.Fprintf(m.out, "   %s\n", line)
		}
	}
}

func (m *Monitor) printFinalTotals() {
	m.mu.Lock()
	runtime := time.Since(m.started)
	apiCalls := m.apiCalls
	cost := m.estimatedCost
	m.mu.Unlock()

	fmt.Fprintf(m.out, "\n%sMonitoring stopped after %.1f seconds%s\n", colors.Bold, runtime.Seconds(), colors.Reset)
	fmt.Fprintf(m.out, "Total estimated API calls tracked: %d\n", apiCalls)
	fmt.Fprintf(m.out, "Total estimated cost: $%.4f\n", cost)
}

// recentActivity returns the last few lines of the activity log.
func (m *Monitor) recentActivity() []string {
	data, err := os.ReadFile(m.logPath)
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > recentActivityLines {
		lines = lines[len(lines)-recentActivityLines:]
	}
	return lines
}

// log appends an entry to the activity log; zap supplies the timestamp.
func (m *Monitor) log(message string) {
	m.logger.Info(message)
}

func countFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}
