// Package executor runs one plan step through the router model: it inlines
// prior results, narrows the catalog, retries until a tool is called and
// classifies the outcome against the expected tools.
package executor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/golovatskygroup/chainbench/internal/catalog"
	"github.com/golovatskygroup/chainbench/internal/filter"
	"github.com/golovatskygroup/chainbench/internal/llm"
	"github.com/golovatskygroup/chainbench/internal/planner"
	"github.com/golovatskygroup/chainbench/internal/toolcall"
	"github.com/golovatskygroup/chainbench/internal/toolindex"
)

// RouterSystemPrompt is the fixed instruction given to the router model.
const RouterSystemPrompt = "You are a tool-calling assistant. Select the most appropriate tool and call it with the correct parameters. ALWAYS call a tool. Never respond with text only."

// DefaultSampling is the router's near-greedy decoding setup.
var DefaultSampling = llm.Sampling{Temperature: 0.1, TopP: 0.1, MaxTokens: 512}

// retryHintTools is how many filtered names the retry nudge lists.
const retryHintTools = 5

var tracer = otel.Tracer("github.com/golovatskygroup/chainbench/internal/executor")

type Chatter interface {
	Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error)
}

type Selector interface {
	Select(ctx context.Context, description string, index toolindex.Index, topK int) (filter.Selection, error)
}

type Options struct {
	Catalog  *catalog.Catalog
	Index    toolindex.Index
	Filter   Selector
	TopK     int
	Retry    RetryPolicy
	Sampling llm.Sampling
	// NativeTools also declares the filtered tools in the request "tools" field.
	NativeTools bool
	// DetectDeflection reports an exhausted step as deflection when the last
	// reply was a refusal.
	DetectDeflection bool
	Logger           *zap.Logger
}

type Executor struct {
	chat Chatter
	opts Options
	log  *zap.Logger
}

func New(chat Chatter, opts Options) (*Executor, error) {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Index == nil {
		opts.Index = toolindex.NewLexicalIndex(opts.Catalog)
	}
	if opts.Filter == nil {
		f, err := filter.New(0)
		if err != nil {
			return nil, err
		}
		opts.Filter = f
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if opts.Sampling == (llm.Sampling{}) {
		opts.Sampling = DefaultSampling
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Executor{chat: chat, opts: opts, log: opts.Logger}, nil
}

// MaxAttempts is the retry bound in effect.
func (e *Executor) MaxAttempts() int { return e.opts.Retry.MaxAttempts }

// Request is one plan step to execute. Index is the 0-based plan position.
type Request struct {
	Step          planner.PlanStep
	Index         int
	Prior         History
	ExpectedTools []string
}

func (e *Executor) Execute(ctx context.Context, req Request) StepResult {
	ctx, span := tracer.Start(ctx, "executor.step")
	defer span.End()

	start := time.Now()
	res := StepResult{
		StepIndex:       req.Index,
		StepNumber:      req.Step.StepNumber,
		PlanDescription: req.Step.Description,
		ExpectedTools:   nonNil(req.ExpectedTools),
		ActualTools:     []string{},
		FilteredTools:   []string{},
		Status:          StatusFailed,
	}
	finish := func() StepResult {
		res.DurationMs = time.Since(start).Milliseconds()
		span.SetAttributes(
			attribute.Int("step.index", res.StepIndex),
			attribute.String("step.status", string(res.Status)),
			attribute.String("step.failure_reason", string(res.FailureReason)),
			attribute.Int("step.retries", res.Retries),
		)
		return res
	}
	// stop records a parent-context cancellation after attempts were consumed.
	stop := func(attempts int, err error) StepResult {
		res.FailureReason = ReasonError
		res.Retries = attempts
		res.Error = err.Error()
		return finish()
	}

	description := Interpolate(req.Step.Description, req.Prior)

	sel, err := e.opts.Filter.Select(ctx, description, e.opts.Index, e.opts.TopK)
	if err != nil {
		e.log.Warn("tool filter failed", zap.Int("step", req.Index), zap.Error(err))
		res.FailureReason = ReasonError
		res.Error = err.Error()
		return finish()
	}
	res.FilteredTools = nonNil(sel.Tools)
	res.FilterHit = sel.Contains(req.ExpectedTools)

	defs := e.opts.Catalog.Restrict(sel.Tools)
	system := routerSystemPrompt(defs)
	var specs []llm.ToolSpec
	if e.opts.NativeTools {
		specs = toolSpecs(defs)
	}

	bo := e.opts.Retry.newBackOff()
	var lastContent string
	for attempt := 0; attempt < e.opts.Retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, bo.NextBackOff()); err != nil {
				return stop(attempt, err)
			}
		}

		prompt := description
		if attempt > 0 {
			prompt = description + "\n\nYou MUST call a tool. Select from: " + strings.Join(head(sel.Tools, retryHintTools), ", ")
		}

		actx, cancel := e.opts.Retry.attemptContext(ctx)
		resp, err := e.chat.Chat(actx, llm.ChatRequest{
			Messages: []llm.Message{
				{Role: "system", Content: system},
				{Role: "user", Content: prompt},
			},
			Sampling: e.opts.Sampling,
			Tools:    specs,
		})
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return stop(attempt, ctx.Err())
			}
			e.log.Debug("router attempt failed", zap.Int("step", req.Index), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		lastContent = resp.Content
		tools := resp.ToolNames()
		if len(tools) == 0 {
			tools = toolcall.ParseBracket(resp.Content)
		} else {
			e.checkArgs(resp.ToolCalls[0])
		}
		if len(tools) == 0 {
			e.log.Debug("router produced no tool call", zap.Int("step", req.Index), zap.Int("attempt", attempt))
			continue
		}

		chosen := tools[0]
		res.ActualTools = tools
		res.RawContent = excerpt(resp.Content, rawContentLimit)
		res.MockResult = catalog.MockResult(chosen)
		res.Retries = attempt
		switch {
		case intersects(req.ExpectedTools, tools):
			res.Status = StatusPassed
			res.FailureReason = ReasonNone
		case !res.FilterHit:
			res.FailureReason = ReasonFilterMiss
		default:
			res.FailureReason = ReasonWrongTool
		}
		e.log.Debug("step classified",
			zap.Int("step", req.Index),
			zap.String("tool", chosen),
			zap.String("status", string(res.Status)),
			zap.String("reason", string(res.FailureReason)),
			zap.Int("retries", attempt),
		)
		return finish()
	}

	res.Retries = e.opts.Retry.MaxAttempts
	res.RawContent = excerpt(lastContent, rawContentLimit)
	res.FailureReason = ReasonNoTool
	if e.opts.DetectDeflection && toolcall.IsDeflection(lastContent) {
		res.FailureReason = ReasonDeflection
	}
	return finish()
}

func (e *Executor) checkArgs(tc llm.ToolCall) {
	if tc.Function.Arguments == "" {
		return
	}
	var args any
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		e.log.Debug("tool call arguments are not JSON", zap.String("tool", tc.Function.Name), zap.Error(err))
		return
	}
	if err := e.opts.Catalog.ValidateArgs(tc.Function.Name, args); err != nil {
		e.log.Debug("tool call arguments rejected", zap.Error(err))
	}
}

func routerSystemPrompt(defs []catalog.ToolDefinition) string {
	var sb strings.Builder
	sb.WriteString(RouterSystemPrompt)
	sb.WriteString("\n\nAvailable tools:\n")
	for i, d := range defs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(d.Name)
		sb.WriteString(": ")
		sb.WriteString(d.Description)
	}
	return sb.String()
}

func toolSpecs(defs []catalog.ToolDefinition) []llm.ToolSpec {
	out := make([]llm.ToolSpec, 0, len(defs))
	for _, d := range defs {
		out = append(out, llm.ToolSpec{
			Type:     "function",
			Function: llm.FunctionSpec{Name: d.Name, Description: d.Description, Parameters: d.Params},
		})
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
