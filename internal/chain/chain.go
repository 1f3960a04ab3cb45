// Package chain drives one scenario end to end: plan, align, then execute
// the plan steps in order until the first failure.
package chain

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/golovatskygroup/chainbench/internal/align"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/planner"
	"github.com/golovatskygroup/chainbench/internal/scenario"
)

var tracer = otel.Tracer("github.com/golovatskygroup/chainbench/internal/chain")

type Planner interface {
	Plan(ctx context.Context, request string) planner.Result
}

type Executor interface {
	Execute(ctx context.Context, req executor.Request) executor.StepResult
}

// Result is the outcome of one scenario.
type Result struct {
	ScenarioID     string                 `json:"scenarioId"`
	Difficulty     scenario.Difficulty    `json:"difficulty"`
	Status         executor.Status        `json:"status"`
	StepsCompleted int                    `json:"stepsCompleted"`
	TotalSteps     int                    `json:"totalSteps"`
	FailedAtStep   *int                   `json:"failedAtStep,omitempty"`
	FailureReason  executor.FailureReason `json:"failureReason"`
	Error          string                 `json:"error,omitempty"`
	Plan           *planner.StepPlan      `json:"plan,omitempty"`
	Mapping        *align.Mapping         `json:"mapping,omitempty"`
	StepResults    []executor.StepResult  `json:"stepResults"`
	PlanDurationMs int64                  `json:"planDurationMs"`
	DurationMs     int64                  `json:"durationMs"`
}

func (r Result) Passed() bool { return r.Status == executor.StatusPassed }

type Options struct {
	// MaxSteps bounds plan length during validation.
	MaxSteps int
	Logger   *zap.Logger
}

type Runner struct {
	planner  Planner
	aligner  align.Strategy
	executor Executor
	maxSteps int
	log      *zap.Logger
}

func NewRunner(p Planner, a align.Strategy, e Executor, opts Options) *Runner {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = planner.DefaultMaxSteps
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{planner: p, aligner: a, executor: e, maxSteps: opts.MaxSteps, log: opts.Logger}
}

// Run never returns an error; every failure is folded into the Result.
func (r *Runner) Run(ctx context.Context, sc scenario.Scenario) Result {
	ctx, span := tracer.Start(ctx, "chain.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("scenario.id", sc.ID),
		attribute.String("scenario.difficulty", string(sc.Difficulty)),
	)

	start := time.Now()
	res := Result{
		ScenarioID:  sc.ID,
		Difficulty:  sc.Difficulty,
		Status:      executor.StatusFailed,
		TotalSteps:  len(sc.Steps),
		StepResults: []executor.StepResult{},
	}
	done := func() Result {
		res.DurationMs = time.Since(start).Milliseconds()
		if !res.Passed() {
			span.SetStatus(codes.Error, string(res.FailureReason))
		}
		span.SetAttributes(
			attribute.String("chain.status", string(res.Status)),
			attribute.Int("chain.steps_completed", res.StepsCompleted),
		)
		r.log.Info("chain finished",
			zap.String("scenario", sc.ID),
			zap.String("status", string(res.Status)),
			zap.String("reason", string(res.FailureReason)),
			zap.Int("completed", res.StepsCompleted),
			zap.Int("total", res.TotalSteps),
			zap.Int64("duration_ms", res.DurationMs),
		)
		return res
	}

	pr := r.planner.Plan(ctx, sc.Description)
	res.PlanDurationMs = pr.DurationMs
	if pr.Err != nil || pr.Plan == nil {
		res.FailureReason = executor.ReasonError
		res.Error = "planner returned no plan"
		if pr.Err != nil {
			res.Error = pr.Err.Error()
		}
		return done()
	}
	res.Plan = pr.Plan

	if v := planner.ValidatePlan(pr.Plan, r.maxSteps); !v.Valid {
		res.FailureReason = executor.ReasonError
		res.Error = "invalid plan: " + v.Reason
		return done()
	}
	if !pr.Plan.WantsTools() {
		res.FailureReason = executor.ReasonDeflection
		res.Error = "planner answered directly without tools"
		return done()
	}

	mapping := r.aligner.Map(pr.Plan, sc.Steps)
	res.Mapping = &mapping

	var history executor.History
	for i, step := range pr.Plan.Steps {
		sr := r.executor.Execute(ctx, executor.Request{
			Step:          step,
			Index:         i,
			Prior:         history,
			ExpectedTools: mapping.Expected(i),
		})
		if !sr.Passed() {
			if dependedOn(pr.Plan.Steps[i+1:], step.StepNumber) {
				sr.FailureReason = executor.ReasonCriticalFailure
			}
			res.StepResults = append(res.StepResults, sr)
			res.FailedAtStep = intPtr(i)
			res.FailureReason = sr.FailureReason
			res.Error = sr.Error
			// Extra plan steps past the ground truth can fail with every
			// expected step already completed.
			res.StepsCompleted = min(i, res.TotalSteps)
			return done()
		}
		res.StepResults = append(res.StepResults, sr)
		history = history.Append(sr)
	}

	if at := firstUncovered(mapping); at >= 0 {
		res.FailedAtStep = intPtr(at)
		res.FailureReason = executor.ReasonNoTool
		res.Error = fmt.Sprintf("no plan step covers expected step %d", at+1)
		res.StepsCompleted = at
		return done()
	}

	res.Status = executor.StatusPassed
	res.FailureReason = executor.ReasonNone
	res.StepsCompleted = res.TotalSteps
	return done()
}

// dependedOn reports whether any later step refers to "step n".
func dependedOn(later []planner.PlanStep, n int) bool {
	ref := executor.StepRef(n)
	for _, s := range later {
		if s.StepNumber > n && ref.MatchString(s.Description) {
			return true
		}
	}
	return false
}

func firstUncovered(m align.Mapping) int {
	for i, p := range m.TestToPlan {
		if p < 0 {
			return i
		}
	}
	return -1
}

func intPtr(i int) *int { return &i }
