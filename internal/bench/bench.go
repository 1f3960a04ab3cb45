// Package bench runs a scenario set through the chain runner one scenario at
// a time, aggregates the outcome and persists it.
package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/golovatskygroup/chainbench/internal/artifacts"
	"github.com/golovatskygroup/chainbench/internal/chain"
	"github.com/golovatskygroup/chainbench/internal/scenario"
)

// FilePrefix starts every artifact name written by a run.
const FilePrefix = "chainbench"

var tracer = otel.Tracer("github.com/golovatskygroup/chainbench/internal/bench")

type ChainRunner interface {
	Run(ctx context.Context, sc scenario.Scenario) chain.Result
}

type Endpoints struct {
	Planner string `json:"planner"`
	Router  string `json:"router"`
}

// Params records the knobs a run was made with.
type Params struct {
	Difficulty   string `json:"difficulty"`
	TopK         int    `json:"topK"`
	MaxAttempts  int    `json:"maxAttempts"`
	Index        string `json:"index"`
	PlannerModel string `json:"plannerModel,omitempty"`
	RouterModel  string `json:"routerModel,omitempty"`
	ScenarioSet  string `json:"scenarioSet,omitempty"`
}

// Report is the artifact body.
type Report struct {
	RunID        string         `json:"runId"`
	Timestamp    time.Time      `json:"timestamp"`
	Endpoints    Endpoints      `json:"endpoints"`
	Params       Params         `json:"params"`
	Summary      Summary        `json:"metrics"`
	Chains       []chain.Result `json:"chains"`
	DurationMs   int64          `json:"durationMs"`
	ArtifactPath string         `json:"-"`
	MetricsPath  string         `json:"-"`
}

type Options struct {
	Endpoints Endpoints
	Params    Params
	// Store receives the result JSON and the metrics textfile; nil skips both.
	Store   *artifacts.Store
	Metrics *Metrics
	// Out receives the per-chain progress lines; nil keeps the run quiet.
	Out    io.Writer
	Logger *zap.Logger
	Now    func() time.Time
}

type Runner struct {
	chains ChainRunner
	opts   Options
	log    *zap.Logger
}

func NewRunner(chains ChainRunner, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{chains: chains, opts: opts, log: opts.Logger}
}

func (r *Runner) Metrics() *Metrics { return r.opts.Metrics }

// Run executes the scenarios strictly in order. A failing scenario never stops
// the run; cancelling ctx does, after the partial report is persisted.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) (*Report, error) {
	ctx, span := tracer.Start(ctx, "bench.run")
	defer span.End()

	started := r.opts.Now()
	rep := &Report{
		RunID:     uuid.NewString(),
		Timestamp: started.UTC(),
		Endpoints: r.opts.Endpoints,
		Params:    r.opts.Params,
		Chains:    make([]chain.Result, 0, len(scenarios)),
	}
	span.SetAttributes(
		attribute.String("run.id", rep.RunID),
		attribute.Int("run.scenarios", len(scenarios)),
	)
	r.log.Info("benchmark started",
		zap.String("run_id", rep.RunID),
		zap.Int("scenarios", len(scenarios)),
		zap.String("difficulty", difficultyTag(rep.Params.Difficulty)),
	)

	var interrupted error
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}
		res := r.chains.Run(ctx, sc)
		rep.Chains = append(rep.Chains, res)
		r.opts.Metrics.ObserveChain(res)
		if r.opts.Out != nil {
			PrintChain(r.opts.Out, res)
		}
	}

	rep.DurationMs = r.opts.Now().Sub(started).Milliseconds()
	rep.Summary = Summarize(rep.Chains)
	r.opts.Metrics.ObserveSummary(rep.Summary)
	span.SetAttributes(attribute.Float64("run.chain_completion", rep.Summary.ChainCompletionRate))

	if err := r.persist(rep, started); err != nil {
		return rep, err
	}
	r.log.Info("benchmark finished",
		zap.String("run_id", rep.RunID),
		zap.Int("passed", rep.Summary.Passed),
		zap.Int("total", rep.Summary.TotalChains),
		zap.String("artifact", rep.ArtifactPath),
	)
	if interrupted != nil {
		return rep, fmt.Errorf("run interrupted after %d of %d scenarios: %w", len(rep.Chains), len(scenarios), interrupted)
	}
	return rep, nil
}

func (r *Runner) persist(rep *Report, started time.Time) error {
	if r.opts.Store == nil {
		return nil
	}
	tag := difficultyTag(rep.Params.Difficulty)

	item, err := r.opts.Store.WriteJSON(artifacts.FileName(FilePrefix, tag, started, ".json"), rep)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	rep.ArtifactPath = item.Path

	name := artifacts.FileName(FilePrefix, tag, started, ".prom")
	if err := r.opts.Metrics.WriteTextfile(r.opts.Store.Path(name)); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	if item, err = r.opts.Store.Track(name, "text/plain"); err != nil {
		return err
	}
	rep.MetricsPath = item.Path
	return nil
}
