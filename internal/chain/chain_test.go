package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golovatskygroup/chainbench/internal/align"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/llm"
	"github.com/golovatskygroup/chainbench/internal/planner"
	"github.com/golovatskygroup/chainbench/internal/scenario"
	"github.com/golovatskygroup/chainbench/internal/testutil"
)

type stubPlanner struct {
	res planner.Result
}

func (s stubPlanner) Plan(context.Context, string) planner.Result { return s.res }

// stubExecutor passes every step except those listed in fail.
type stubExecutor struct {
	fail map[int]executor.FailureReason
	reqs []executor.Request
}

func (s *stubExecutor) Execute(_ context.Context, req executor.Request) executor.StepResult {
	s.reqs = append(s.reqs, req)
	r := executor.StepResult{
		StepIndex:     req.Index,
		StepNumber:    req.Step.StepNumber,
		ExpectedTools: req.ExpectedTools,
		Status:        executor.StatusPassed,
		FailureReason: executor.ReasonNone,
		MockResult:    "result",
	}
	if reason, ok := s.fail[req.Index]; ok {
		r.Status = executor.StatusFailed
		r.FailureReason = reason
	}
	return r
}

func ptr[T any](v T) *T { return &v }

func plan(steps ...planner.PlanStep) planner.Result {
	return planner.Result{Plan: &planner.StepPlan{NeedsTools: ptr(true), Steps: steps}, DurationMs: 7}
}

func ps(n int, server, desc string) planner.PlanStep {
	return planner.PlanStep{StepNumber: n, ExpectedServer: ptr(server), Description: desc}
}

var twoStep = scenario.Scenario{
	ID:          "ms-test-001",
	Description: "List my Documents and extract the report text",
	Difficulty:  scenario.Simple,
	Steps: []scenario.ExpectedStep{
		{Description: "List files in the Documents folder", ExpectedTools: []string{"filesystem.list_dir"}},
		{Description: "Extract text from the report PDF", ExpectedTools: []string{"document.extract_text"}},
	},
}

var twoStepPlan = plan(
	ps(1, "filesystem", "List the files in ~/Documents"),
	ps(2, "document", "Extract text from the report.pdf found in step 1"),
)

func newRunner(p Planner, e Executor) *Runner {
	return NewRunner(p, align.Greedy{Weights: align.DefaultWeights()}, e, Options{})
}

func TestRunPasses(t *testing.T) {
	ex := &stubExecutor{}
	res := newRunner(stubPlanner{twoStepPlan}, ex).Run(context.Background(), twoStep)

	assert.True(t, res.Passed())
	assert.Equal(t, executor.ReasonNone, res.FailureReason)
	assert.Equal(t, 2, res.StepsCompleted)
	assert.Equal(t, 2, res.TotalSteps)
	assert.Nil(t, res.FailedAtStep)
	assert.Equal(t, int64(7), res.PlanDurationMs)
	require.NotNil(t, res.Mapping)
	assert.Equal(t, []int{0, 1}, res.Mapping.TestToPlan)

	require.Len(t, ex.reqs, 2)
	assert.Equal(t, []string{"filesystem.list_dir"}, ex.reqs[0].ExpectedTools)
	assert.Equal(t, []string{"document.extract_text"}, ex.reqs[1].ExpectedTools)
	assert.Equal(t, 0, ex.reqs[0].Prior.Len())
	assert.Equal(t, 1, ex.reqs[1].Prior.Len())
	assert.Len(t, res.StepResults, 2)
}

func TestRunCriticalFailure(t *testing.T) {
	sc := twoStep
	sc.Steps = append(append([]scenario.ExpectedStep{}, twoStep.Steps...),
		scenario.ExpectedStep{Description: "Email the summary to legal", ExpectedTools: []string{"email.send_email"}})
	p := plan(
		ps(1, "filesystem", "List the files in ~/Documents"),
		ps(2, "document", "Extract text from the report.pdf"),
		ps(3, "email", "Using the result from step 2, email the summary to legal"),
	)
	ex := &stubExecutor{fail: map[int]executor.FailureReason{1: executor.ReasonWrongTool}}

	res := newRunner(stubPlanner{p}, ex).Run(context.Background(), sc)

	assert.False(t, res.Passed())
	assert.Equal(t, executor.ReasonCriticalFailure, res.FailureReason)
	require.NotNil(t, res.FailedAtStep)
	assert.Equal(t, 1, *res.FailedAtStep)
	assert.Equal(t, 1, res.StepsCompleted)
	assert.Equal(t, 3, res.TotalSteps)
	assert.Len(t, ex.reqs, 2)
	require.Len(t, res.StepResults, 2)
	assert.Equal(t, executor.ReasonCriticalFailure, res.StepResults[1].FailureReason)
}

func TestRunHaltsOnIndependentFailure(t *testing.T) {
	ex := &stubExecutor{fail: map[int]executor.FailureReason{0: executor.ReasonNoTool}}
	p := plan(
		ps(1, "filesystem", "List the files in ~/Documents"),
		ps(2, "document", "Extract text from the report.pdf"),
	)
	res := newRunner(stubPlanner{p}, ex).Run(context.Background(), twoStep)

	assert.Equal(t, executor.ReasonNoTool, res.FailureReason)
	assert.Equal(t, 0, *res.FailedAtStep)
	assert.Equal(t, 0, res.StepsCompleted)
	assert.Len(t, ex.reqs, 1)
}

func TestDependedOnIsWordBounded(t *testing.T) {
	steps := []planner.PlanStep{ps(1, "filesystem", "List files")}
	for n := 2; n <= 10; n++ {
		steps = append(steps, ps(n, "system", "Do more"))
	}
	steps[9].Description = "Summarize the output of step 10"
	assert.False(t, dependedOn(steps[1:], 1))

	steps[5].Description = "Reuse STEP 1 output"
	assert.True(t, dependedOn(steps[1:], 1))
}

func TestRunPlannerFailures(t *testing.T) {
	cases := []struct {
		name   string
		res    planner.Result
		reason executor.FailureReason
		errMsg string
	}{
		{
			name:   "planner error",
			res:    planner.Result{Err: &planner.Error{Kind: planner.KindTransport, Message: "Network error: refused"}},
			reason: executor.ReasonError,
			errMsg: "Network error: refused",
		},
		{
			name:   "null plan",
			res:    planner.Result{},
			reason: executor.ReasonError,
			errMsg: "planner returned no plan",
		},
		{
			name:   "invalid plan",
			res:    planner.Result{Plan: &planner.StepPlan{NeedsTools: ptr(true)}},
			reason: executor.ReasonError,
			errMsg: "invalid plan: needs_tools=true but no steps",
		},
		{
			name:   "direct answer",
			res:    planner.Result{Plan: &planner.StepPlan{NeedsTools: ptr(false), DirectResponse: ptr("Hi")}},
			reason: executor.ReasonDeflection,
			errMsg: "planner answered directly without tools",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := &stubExecutor{}
			res := newRunner(stubPlanner{tc.res}, ex).Run(context.Background(), twoStep)

			assert.Equal(t, executor.StatusFailed, res.Status)
			assert.Equal(t, tc.reason, res.FailureReason)
			assert.Equal(t, tc.errMsg, res.Error)
			assert.Equal(t, 2, res.TotalSteps)
			assert.Zero(t, res.StepsCompleted)
			assert.Empty(t, res.StepResults)
			assert.Empty(t, ex.reqs)
		})
	}
}

func TestRunUncoveredStepFails(t *testing.T) {
	ex := &stubExecutor{}
	p := plan(ps(1, "filesystem", "List the files in ~/Documents"))

	res := newRunner(stubPlanner{p}, ex).Run(context.Background(), twoStep)

	assert.False(t, res.Passed())
	assert.Equal(t, executor.ReasonNoTool, res.FailureReason)
	assert.Equal(t, 1, *res.FailedAtStep)
	assert.Equal(t, 1, res.StepsCompleted)
	assert.Len(t, res.StepResults, 1)
}

func TestRunTotalStepsFollowsScenario(t *testing.T) {
	ex := &stubExecutor{}
	p := plan(
		ps(1, "filesystem", "List the files in ~/Documents"),
		ps(2, "system", "Get system info"),
		ps(3, "document", "Extract text from the report.pdf"),
	)

	res := newRunner(stubPlanner{p}, ex).Run(context.Background(), twoStep)

	assert.True(t, res.Passed())
	assert.Equal(t, 2, res.TotalSteps)
	assert.Equal(t, 2, res.StepsCompleted)
	assert.Len(t, res.StepResults, 3)
	assert.Equal(t, []int{0, 2}, res.Mapping.TestToPlan)
	assert.Empty(t, ex.reqs[1].ExpectedTools)
}

// An extra trailing plan step has no ground truth, so the executor fails it.
// Every expected step is already done, so StepsCompleted equals TotalSteps
// even though the chain failed.
func TestRunExtraTrailingPlanStepFails(t *testing.T) {
	ex := &stubExecutor{fail: map[int]executor.FailureReason{2: executor.ReasonFilterMiss}}
	p := plan(
		ps(1, "filesystem", "List the files in ~/Documents"),
		ps(2, "document", "Extract text from the report.pdf"),
		ps(3, "clipboard", "Copy the extracted text to the clipboard"),
	)

	res := newRunner(stubPlanner{p}, ex).Run(context.Background(), twoStep)

	assert.False(t, res.Passed())
	assert.Equal(t, executor.ReasonFilterMiss, res.FailureReason)
	require.NotNil(t, res.FailedAtStep)
	assert.Equal(t, 2, *res.FailedAtStep)
	assert.Equal(t, 2, res.TotalSteps)
	assert.Equal(t, 2, res.StepsCompleted)
	assert.Equal(t, []int{0, 1}, res.Mapping.TestToPlan)
	require.Len(t, ex.reqs, 3)
	assert.Empty(t, ex.reqs[2].ExpectedTools)
}

func TestRunEndToEnd(t *testing.T) {
	planSrv := testutil.NewChatServer(t, testutil.Script(testutil.Reply{Content: "Here is the plan:\n```json\n" + `{
  "needs_tools": true,
  "steps": [
    {"step_number": 1, "description": "List the files in ~/Documents", "expected_server": "filesystem"},
    {"step_number": 2, "description": "Extract text from the report.pdf found in step 1", "expected_server": "document"}
  ]
}` + "\n```"}))
	routerSrv := testutil.NewChatServer(t, testutil.Script(
		testutil.Reply{ToolCalls: []string{"filesystem.list_dir"}},
		testutil.Reply{Content: `[document.extract_text(path="~/Documents/report.pdf")]`},
	))

	pl := planner.NewClient(llm.NewClient(llm.Config{Endpoint: planSrv.URL}), planner.Options{})
	ex, err := executor.New(llm.NewClient(llm.Config{Endpoint: routerSrv.URL}), executor.Options{
		TopK:  0,
		Retry: executor.RetryPolicy{MaxAttempts: 2},
	})
	require.NoError(t, err)

	res := newRunner(pl, ex).Run(context.Background(), twoStep)

	require.True(t, res.Passed(), "chain failed: %s %s", res.FailureReason, res.Error)
	assert.Equal(t, []int{0, 1}, res.Mapping.TestToPlan)
	assert.Equal(t, 2, res.StepsCompleted)

	calls := routerSrv.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].User(), "[Context from previous step 1]:\n")
}
