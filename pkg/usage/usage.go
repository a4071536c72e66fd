// Package usage compares local cost estimates against OpenAI's account
// usage endpoint and summarizes recent run artifacts.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/reports"
	"guidecraft/pkg/tracking"
)

const defaultUsageEndpoint = "https://api.openai.com/v1/usage"

// ModelPrice is one row of the reference pricing table.
type ModelPrice struct {
	Model       string
	InputPer1K  float64
	OutputPer1K float64
	Description string
}

// PricingTable is the reference pricing shown in the report. The first
// two rows match the estimator's table; the others are context only.
func PricingTable() []ModelPrice {
	return []ModelPrice{
		{"gpt-4o", 0.0025, 0.01, "GPT-4 Omni - Latest GPT-4 model"},
		{"gpt-4o-mini", 0.00015, 0.0006, "GPT-4 Omni Mini - Faster, cheaper GPT-4"},
		{"gpt-4", 0.03, 0.06, "GPT-4 - Previous generation"},
		{"gpt-3.5-turbo", 0.001, 0.002, "GPT-3.5 Turbo - Fast and efficient"},
	}
}

// LocalEstimate aggregates every *_cost_estimate.json under logsDir.
type LocalEstimate struct {
	TotalEstimatedCost float64
	TotalAPICalls      int
	CostFilesFound     int
}

// EstimateFromLogs folds all cost estimate artifacts into one total.
// Unreadable or malformed files are skipped.
func EstimateFromLogs(logsDir string) LocalEstimate {
	var est LocalEstimate

	matches, err := filepath.Glob(filepath.Join(logsDir, "*_cost_estimate.json"))
	if err != nil {
		return est
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var summary tracking.CostSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			continue
		}
		est.TotalEstimatedCost += summary.TotalEstimatedCost
		est.TotalAPICalls += summary.TotalAPICalls
		est.CostFilesFound++
	}
	return est
}

// Checker produces the usage report.
type Checker struct {
	APIKey   string
	LogsDir  string
	Endpoint string       // defaults to the OpenAI usage endpoint
	Client   *http.Client // defaults to a 15s-timeout client
}

// FetchRemoteUsage calls the account usage endpoint for the last day.
// The endpoint is unstable upstream, so any failure is returned for the
// report to note rather than acted on.
func (c *Checker) FetchRemoteUsage(ctx context.Context) (string, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultUsageEndpoint
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	end := time.Now()
	start := end.AddDate(0, 0, -1)
	url := fmt.Sprintf("%s?start_date=%s&end_date=%s",
		endpoint, start.Format("2006-01-02"), end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("usage API returned status %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}

// Report writes the full usage report to out.
func (c *Checker) Report(ctx context.Context, out io.Writer) {
	fmt.Fprintf(out, "%sOPENAI USAGE REPORT%s\n", colors.Bold, colors.Reset)
	fmt.Fprintln(out, "============================================================")

	fmt.Fprintf(out, "\n%sCurrent OpenAI Pricing:%s\n", colors.Cyan, colors.Reset)
	for _, p := range PricingTable() {
		fmt.Fprintf(out, "   %s:\n", p.Model)
		fmt.Fprintf(out, "      Input:  $%.4f per 1K tokens\n", p.InputPer1K)
		fmt.Fprintf(out, "      Output: $%.4f per 1K tokens\n", p.OutputPer1K)
		fmt.Fprintf(out, "      %s\n", p.Description)
	}

	fmt.Fprintf(out, "\n%sEstimated Usage (from local logs):%s\n", colors.Cyan, colors.Reset)
	local := EstimateFromLogs(c.LogsDir)
	fmt.Fprintf(out, "   Total API Calls: %d\n", local.TotalAPICalls)
	fmt.Fprintf(out, "   Estimated Cost: $%.4f\n", local.TotalEstimatedCost)
	fmt.Fprintf(out, "   Cost files found: %d\n", local.CostFilesFound)

	fmt.Fprintf(out, "\n%sActual Usage (from OpenAI API):%s\n", colors.Cyan, colors.Reset)
	if c.APIKey == "" {
		fmt.Fprintf(out, "   %s OPENAI_API_KEY not set, skipping\n", colors.IconSkipped)
	} else if data, err := c.FetchRemoteUsage(ctx); err != nil {
		fmt.Fprintf(out, "   %s Unable to retrieve real-time usage data: %v\n", colors.IconSkipped, err)
		fmt.Fprintln(out, "   Note: OpenAI's usage API may have delays or restrictions")
	} else {
		fmt.Fprintf(out, "   %s Successfully retrieved usage data\n", colors.IconSuccess)
		fmt.Fprintf(out, "   Data: %s\n", data)
	}

	fmt.Fprintf(out, "\n%sRecent Activity Files:%s\n", colors.Cyan, colors.Reset)
	for _, path := range reports.RecentArtifacts(c.LogsDir, "*.json", 5) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "   %s (%d bytes, %s)\n",
			filepath.Base(path), info.Size(), info.ModTime().Format("15:04:05"))
	}

	fmt.Fprintln(out, "\n============================================================")
}
