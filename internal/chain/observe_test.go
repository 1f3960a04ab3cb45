package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/golovatskygroup/chainbench/internal/align"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/llm"
	"github.com/golovatskygroup/chainbench/internal/telemetry"
)

type toolChat struct{ tool string }

func (c toolChat) Chat(context.Context, llm.ChatRequest) (llm.ChatResponse, error) {
	return llm.ChatResponse{Content: "[" + c.tool + "()]"}, nil
}

func TestRunLogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewRunner(stubPlanner{twoStepPlan}, align.Greedy{Weights: align.DefaultWeights()}, &stubExecutor{}, Options{Logger: zap.New(core)})

	r.Run(context.Background(), twoStep)

	entries := logs.FilterMessage("chain finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ms-test-001", fields["scenario"])
	assert.Equal(t, "passed", fields["status"])
	assert.Equal(t, int64(2), fields["completed"])
}

func TestRunRecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := telemetry.Install(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ex, err := executor.New(toolChat{tool: "filesystem.list_dir"}, executor.Options{Retry: executor.RetryPolicy{MaxAttempts: 1}})
	require.NoError(t, err)
	res := newRunner(stubPlanner{twoStepPlan}, ex).Run(context.Background(), twoStep)
	require.Equal(t, executor.ReasonWrongTool, res.FailureReason)

	names := map[string]int{}
	for _, s := range rec.Ended() {
		names[s.Name()]++
	}
	assert.Equal(t, 1, names["chain.run"])
	assert.Equal(t, 2, names["executor.step"])
}
