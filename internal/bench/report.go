package bench

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/golovatskygroup/chainbench/internal/chain"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/scenario"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	heavyRule = strings.Repeat("═", 70)
	lightRule = strings.Repeat("─", 70)
)

// reportedReasons fixes the order of the failure breakdown. Rows that are
// not always shown appear only when they occurred.
var reportedReasons = []struct {
	reason executor.FailureReason
	label  string
	always bool
}{
	{executor.ReasonDeflection, "Deflection", true},
	{executor.ReasonWrongTool, "Wrong Tool", true},
	{executor.ReasonNoTool, "No Tool Call", true},
	{executor.ReasonFilterMiss, "Filter Miss", false},
	{executor.ReasonCriticalFailure, "Critical Failure", false},
	{executor.ReasonError, "Error", false},
}

// PrintHeader announces a run before the first chain starts.
func PrintHeader(w io.Writer, ep Endpoints, difficulty string, n int) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w, bold("  Multi-Step Chain Benchmark"))
	fmt.Fprintf(w, "  Planner:  %s\n", ep.Planner)
	fmt.Fprintf(w, "  Router:   %s\n", ep.Router)
	fmt.Fprintf(w, "  Chains: %d | Difficulty: %s\n", n, difficultyTag(difficulty))
	fmt.Fprintln(w, heavyRule)
}

// PrintChain writes the one-line outcome of a chain.
func PrintChain(w io.Writer, r chain.Result) {
	if r.Passed() {
		fmt.Fprintf(w, "  %s %-16s %d/%d steps %s\n", green("✓"), r.ScenarioID, r.StepsCompleted, r.TotalSteps, gray(fmt.Sprintf("(%dms)", r.DurationMs)))
		return
	}
	at := 0
	if r.FailedAtStep != nil {
		at = *r.FailedAtStep
	}
	line := fmt.Sprintf("FAILED at step %d: %s", at+1, r.FailureReason)
	if r.Error != "" {
		line += " (" + r.Error + ")"
	}
	fmt.Fprintf(w, "  %s %-16s %s %s\n", red("✗"), r.ScenarioID, line, gray(fmt.Sprintf("(%dms)", r.DurationMs)))
}

// PrintReport writes the final summary of a run.
func PrintReport(w io.Writer, rep *Report) {
	s := rep.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w, bold("  MULTI-STEP BENCHMARK RESULTS"))
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "  Run:            %s\n", rep.RunID)
	fmt.Fprintf(w, "  Router:         %s\n", rep.Endpoints.Router)
	fmt.Fprintf(w, "  Duration:       %.1fs\n", float64(rep.DurationMs)/1000)
	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "  Total Chains:   %d\n", s.TotalChains)
	fmt.Fprintf(w, "  Passed:         %s\n", green(s.Passed))
	fmt.Fprintf(w, "  Failed:         %s\n", red(s.Failed))
	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "  CHAIN COMPLETION: %s\n", bold(pct(s.ChainCompletionRate)))
	fmt.Fprintf(w, "  Step Completion:  %s (%d/%d steps)\n", pct(s.StepCompletionRate), s.CompletedSteps, s.TotalSteps)
	fmt.Fprintf(w, "  Avg Steps/Chain:  %.1f\n", s.AvgStepsCompleted)
	fmt.Fprintln(w, lightRule)
	fmt.Fprintln(w, "  FAILURE BREAKDOWN:")
	for _, rr := range reportedReasons {
		n := s.FailureCounts[rr.reason]
		if n == 0 && !rr.always {
			continue
		}
		fmt.Fprintf(w, "    %-18s %s (%s)\n", rr.label+":", yellow(n), pct(s.Rate(rr.reason)))
	}
	fmt.Fprintln(w, lightRule)
	fmt.Fprintln(w, "  BY DIFFICULTY:")
	keys := make([]scenario.Difficulty, 0, len(s.ByDifficulty))
	for d := range s.ByDifficulty {
		keys = append(keys, d)
	}
	slices.Sort(keys)
	for _, d := range keys {
		st := s.ByDifficulty[d]
		fmt.Fprintf(w, "    %-10s %s (%d/%d)\n", d, pct(st.PassRate), st.Passed, st.Total)
	}
	fmt.Fprintln(w, heavyRule)
	if rep.ArtifactPath != "" {
		fmt.Fprintf(w, "Results saved to: %s\n", rep.ArtifactPath)
	}
	if rep.MetricsPath != "" {
		fmt.Fprintf(w, "Metrics saved to: %s\n", rep.MetricsPath)
	}
}

func pct(r float64) string { return fmt.Sprintf("%.0f%%", r*100) }

func difficultyTag(d string) string {
	if d == "" {
		return "all"
	}
	return d
}
