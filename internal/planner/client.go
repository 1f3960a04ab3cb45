// Package planner asks a planning model to decompose a request into ordered,
// self-contained tool-calling steps and validates what comes back.
package planner

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/golovatskygroup/chainbench/internal/llm"
)

// DefaultSampling keeps the planner close to deterministic while leaving room
// for long plans.
var DefaultSampling = llm.Sampling{Temperature: 0.1, TopP: 0.2, MaxTokens: 4096}

var tracer = otel.Tracer("github.com/golovatskygroup/chainbench/internal/planner")

// Chatter is the part of *llm.Client the planner needs.
type Chatter interface {
	Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error)
}

type Options struct {
	Sampling   llm.Sampling
	RepairJSON bool
	Logger     *zap.Logger
}

type Client struct {
	chat     Chatter
	sampling llm.Sampling
	repair   bool
	log      *zap.Logger
}

func NewClient(chat Chatter, opts Options) *Client {
	if opts.Sampling == (llm.Sampling{}) {
		opts.Sampling = DefaultSampling
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{chat: chat, sampling: opts.Sampling, repair: opts.RepairJSON, log: opts.Logger}
}

// Plan never returns a Go error: every failure is captured in Result.Err with
// a nil Plan.
func (c *Client) Plan(ctx context.Context, request string) Result {
	ctx, span := tracer.Start(ctx, "planner.plan")
	defer span.End()

	start := time.Now()
	resp, err := c.chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: request},
		},
		Sampling: c.sampling,
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		res := Result{DurationMs: elapsed}
		var httpErr *llm.HTTPError
		if errors.As(err, &httpErr) {
			res.RawResponse = httpErr.Body
			res.Err = errorf(KindHTTPStatus, "%s", httpErr.Error())
		} else {
			res.Err = errorf(KindTransport, "Network error: %v", err)
		}
		c.fail(span, res.Err)
		return res
	}

	res := Result{RawResponse: resp.Content, DurationMs: elapsed}
	plan, perr := ParsePlan(resp.Content, c.repair)
	if perr != nil {
		if resp.FinishReason == "length" {
			perr.Message += " (finish_reason=length)"
		}
		res.Err = perr
		c.fail(span, perr)
		return res
	}
	res.Plan = plan

	span.SetAttributes(attribute.Int("plan.steps", len(plan.Steps)))
	c.log.Debug("plan received",
		zap.Int("steps", len(plan.Steps)),
		zap.Bool("needs_tools", plan.WantsTools()),
		zap.Int64("duration_ms", elapsed),
	)
	return res
}

func (c *Client) fail(span trace.Span, err *Error) {
	span.SetStatus(codes.Error, err.Message)
	c.log.Warn("planner failed", zap.String("kind", string(err.Kind)), zap.String("error", err.Message))
}
