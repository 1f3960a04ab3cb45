// Package align maps ground-truth scenario steps onto the steps a planner
// produced, so each executed plan step can be scored against the right
// expected tools.
package align

import (
	"strings"

	"github.com/golovatskygroup/chainbench/internal/catalog"
	"github.com/golovatskygroup/chainbench/internal/planner"
	"github.com/golovatskygroup/chainbench/internal/scenario"
)

// Weights are the per-signal scores used by Greedy.
type Weights struct {
	ServerHint    int `mapstructure:"server_hint" json:"server_hint"`
	ServerMention int `mapstructure:"server_mention" json:"server_mention"`
	ToolMention   int `mapstructure:"tool_mention" json:"tool_mention"`
	ActionMention int `mapstructure:"action_mention" json:"action_mention"`
	Keyword       int `mapstructure:"keyword" json:"keyword"`
	// Only ground-truth words longer than MinWordLen count as keywords.
	MinWordLen int `mapstructure:"min_word_len" json:"min_word_len"`
}

func DefaultWeights() Weights {
	return Weights{
		ServerHint:    3,
		ServerMention: 2,
		ToolMention:   3,
		ActionMention: 2,
		Keyword:       1,
		MinWordLen:    3,
	}
}

// Mapping relates ground-truth steps to plan steps by index.
type Mapping struct {
	// TestToPlan[i] is the plan step index for ground-truth step i, or -1.
	TestToPlan []int `json:"testToPlan"`
	// PlanExpected holds the expected tools for each mapped plan step index.
	PlanExpected map[int][]string `json:"planExpected"`
}

// Expected returns the expected tools for a plan step; unmapped steps get nil.
func (m Mapping) Expected(planIdx int) []string {
	return m.PlanExpected[planIdx]
}

// Covered counts ground-truth steps that found a plan step.
func (m Mapping) Covered() int {
	n := 0
	for _, p := range m.TestToPlan {
		if p >= 0 {
			n++
		}
	}
	return n
}

// Strategy maps a plan onto ground-truth steps.
type Strategy interface {
	Map(plan *planner.StepPlan, expected []scenario.ExpectedStep) Mapping
}

// Greedy walks ground-truth steps in order and gives each the best-scoring
// unused plan step. Only positive scores map; ties keep the earlier plan step.
type Greedy struct {
	Weights Weights
}

func (g Greedy) Map(plan *planner.StepPlan, expected []scenario.ExpectedStep) Mapping {
	m := Mapping{
		TestToPlan:   make([]int, len(expected)),
		PlanExpected: map[int][]string{},
	}
	var steps []planner.PlanStep
	if plan != nil {
		steps = plan.Steps
	}
	used := make([]bool, len(steps))

	for ti, exp := range expected {
		best, bestScore := -1, 0
		for pi, ps := range steps {
			if used[pi] {
				continue
			}
			if s := g.Score(ps, exp); s > bestScore {
				best, bestScore = pi, s
			}
		}
		m.TestToPlan[ti] = best
		if best >= 0 {
			used[best] = true
			m.PlanExpected[best] = exp.ExpectedTools
		}
	}
	return m
}

// Score rates how well a plan step matches one ground-truth step.
func (g Greedy) Score(ps planner.PlanStep, exp scenario.ExpectedStep) int {
	w := g.Weights
	desc := strings.ToLower(ps.Description)

	var server string
	if len(exp.ExpectedTools) > 0 {
		server, _ = catalog.SplitName(exp.ExpectedTools[0])
	}

	score := 0
	if server != "" {
		if ps.ExpectedServer != nil && strings.EqualFold(strings.TrimSpace(*ps.ExpectedServer), server) {
			score += w.ServerHint
		}
		if strings.Contains(desc, server) {
			score += w.ServerMention
		}
	}
	for _, tool := range exp.ExpectedTools {
		if _, action := catalog.SplitName(tool); action != "" && strings.Contains(desc, strings.ReplaceAll(action, "_", " ")) {
			score += w.ActionMention
		}
		if strings.Contains(desc, strings.ToLower(tool)) {
			score += w.ToolMention
		}
	}
	for _, word := range strings.Fields(strings.ToLower(exp.Description)) {
		if len(word) > w.MinWordLen && strings.Contains(desc, word) {
			score += w.Keyword
		}
	}
	return score
}
