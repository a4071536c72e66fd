// Package tracking provides the run-local accumulators: estimated API
// cost, per-step performance, and section progress. Each tracker is an
// explicit object owned by the pipeline run, not process-wide state.
package tracking

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"guidecraft/pkg/colors"
)

// Pricing is the approximate per-1K-token rate for a model.
type Pricing struct {
	Input  float64
	Output float64
}

// ModelPricing holds the static price table used for estimates.
// Unknown models estimate to zero.
var ModelPricing = map[string]Pricing{
	"gpt-4o":      {Input: 0.0025, Output: 0.01},
	"gpt-4o-mini": {Input: 0.00015, Output: 0.0006},
}

// EstimateTokens approximates token count as len(text)/4.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// CostSummary is the snapshot shape flushed to *_cost_estimate.json.
type CostSummary struct {
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	TotalAPICalls      int     `json:"total_api_calls"`
	AverageCostPerCall float64 `json:"average_cost_per_call"`
}

// CostEstimator accumulates estimated spend across one run. Totals only
// ever grow.
type CostEstimator struct {
	mu                 sync.Mutex
	totalEstimatedCost float64
	callCount          int
	out                io.Writer
}

// NewCostEstimator returns an estimator printing per-call estimates to
// out (os.Stdout when nil).
func NewCostEstimator(out io.Writer) *CostEstimator {
	if out == nil {
		out = os.Stdout
	}
	return &CostEstimator{out: out}
}

// EstimateCallCost estimates one call's cost from input/output text and
// adds it to the running total. An unknown model yields 0.0 without
// error and is not counted, matching the price table's advisory nature.
func (c *CostEstimator) EstimateCallCost(model, inputText, outputText string) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		return 0.0
	}

	inputTokens := EstimateTokens(inputText)
	outputTokens := EstimateTokens(outputText)
	cost := (float64(inputTokens)/1000)*pricing.Input + (float64(outputTokens)/1000)*pricing.Output

	c.mu.Lock()
	c.totalEstimatedCost += cost
	c.callCount++
	total := c.totalEstimatedCost
	c.mu.Unlock()

	fmt.Fprintf(c.out, "%s$%s Estimated call cost: $%.4f %s(model %s, ~%d in / ~%d out tokens, total $%.4f)%s\n",
		colors.Green, colors.Reset, cost, colors.Dim, model, inputTokens, outputTokens, total, colors.Reset)

	return cost
}

// Summary returns the current totals. Average is zero when no calls
// were recorded.
func (c *CostEstimator) Summary() CostSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := 0.0
	if c.callCount > 0 {
		avg = c.totalEstimatedCost / float64(c.callCount)
	}
	return CostSummary{
		TotalEstimatedCost: c.totalEstimatedCost,
		TotalAPICalls:      c.callCount,
		AverageCostPerCall: avg,
	}
}

// Save writes the summary as indented JSON.
func (c *CostEstimator) Save(path string) error {
	data, err := json.MarshalIndent(c.Summary(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
