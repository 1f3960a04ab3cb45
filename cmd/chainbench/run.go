package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/golovatskygroup/chainbench/internal/artifacts"
	"github.com/golovatskygroup/chainbench/internal/bench"
	"github.com/golovatskygroup/chainbench/internal/scenario"
)

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the multi-step chain benchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd)
		},
	}
	f := cmd.Flags()
	f.Int("top-k", 15, "Tools kept by the relevance filter per step (0 keeps all)")
	f.String("difficulty", "", "Only run scenarios of this difficulty: simple, medium, complex or all")
	f.Int("max-retries", 3, "Router attempts per step")
	f.String("scenarios", "", "YAML scenario file; defaults to the built-in set")
	f.String("out", ".results", "Directory for result artifacts")
	f.String("index", "lexical", "Tool index: lexical or embedding")
	return cmd
}

func (a *app) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := a.cfg

	set, err := loadScenarios(cfg)
	if err != nil {
		return err
	}
	d, err := scenario.ParseDifficulty(cfg.Scenarios.Difficulty)
	if err != nil {
		return err
	}
	scenarios := set.Filter(d)
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios match difficulty %q", cfg.Scenarios.Difficulty)
	}

	p, err := buildPipeline(ctx, cfg, a.log)
	if err != nil {
		return err
	}
	defer p.release()

	models, err := bench.Preflight(ctx, p.planner, p.router)
	if err != nil {
		return err
	}
	for ep, ids := range models {
		printf(out, "✓ Model server %s reachable. Models: %v\n", ep, ids)
	}

	store, err := artifacts.New(artifacts.Config{Dir: cfg.Output.Dir})
	if err != nil {
		return err
	}
	endpoints := bench.Endpoints{Planner: cfg.Planner.URL, Router: cfg.Router.URL}
	runner := bench.NewRunner(p.chains, bench.Options{
		Endpoints: endpoints,
		Params: bench.Params{
			Difficulty:   string(d),
			TopK:         cfg.Router.TopK,
			MaxAttempts:  cfg.Router.Retry.MaxAttempts,
			Index:        cfg.Index.Kind,
			PlannerModel: cfg.Planner.Model,
			RouterModel:  cfg.Router.Model,
			ScenarioSet:  set.Name,
		},
		Store:  store,
		Out:    out,
		Logger: a.log.Named("bench"),
	})

	bench.PrintHeader(out, endpoints, string(d), len(scenarios))
	rep, err := runner.Run(ctx, scenarios)
	if rep != nil {
		bench.PrintReport(out, rep)
	}
	return err
}
