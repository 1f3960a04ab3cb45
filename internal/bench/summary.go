package bench

import (
	"github.com/golovatskygroup/chainbench/internal/chain"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/scenario"
)

type DifficultyStats struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	PassRate float64 `json:"passRate"`
}

// Summary aggregates a run. Rates are ratios in [0, 1]; the failure
// distribution is taken over all chains, not only failed ones.
type Summary struct {
	TotalChains         int                                     `json:"totalChains"`
	Passed              int                                     `json:"passed"`
	Failed              int                                     `json:"failed"`
	ChainCompletionRate float64                                 `json:"chainCompletionRate"`
	TotalSteps          int                                     `json:"totalSteps"`
	CompletedSteps      int                                     `json:"completedSteps"`
	StepCompletionRate  float64                                 `json:"stepCompletionRate"`
	AvgStepsCompleted   float64                                 `json:"avgStepsCompleted"`
	FailureCounts       map[executor.FailureReason]int          `json:"failureCounts"`
	FailureDistribution map[executor.FailureReason]float64      `json:"failureDistribution"`
	ByDifficulty        map[scenario.Difficulty]DifficultyStats `json:"byDifficulty"`
}

// Rate returns the share of chains that failed for reason.
func (s Summary) Rate(reason executor.FailureReason) float64 {
	return s.FailureDistribution[reason]
}

func Summarize(results []chain.Result) Summary {
	s := Summary{
		TotalChains:         len(results),
		FailureCounts:       map[executor.FailureReason]int{},
		FailureDistribution: map[executor.FailureReason]float64{},
		ByDifficulty:        map[scenario.Difficulty]DifficultyStats{},
	}
	for _, r := range results {
		d := s.ByDifficulty[r.Difficulty]
		d.Total++
		if r.Passed() {
			s.Passed++
			d.Passed++
		} else {
			s.Failed++
			s.FailureCounts[r.FailureReason]++
		}
		s.ByDifficulty[r.Difficulty] = d
		s.TotalSteps += r.TotalSteps
		s.CompletedSteps += r.StepsCompleted
	}

	s.ChainCompletionRate = ratio(s.Passed, s.TotalChains)
	s.StepCompletionRate = ratio(s.CompletedSteps, s.TotalSteps)
	s.AvgStepsCompleted = float64(s.CompletedSteps) / float64(max(s.TotalChains, 1))
	for reason, n := range s.FailureCounts {
		s.FailureDistribution[reason] = ratio(n, s.TotalChains)
	}
	for k, d := range s.ByDifficulty {
		d.PassRate = ratio(d.Passed, d.Total)
		s.ByDifficulty[k] = d
	}
	return s
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
