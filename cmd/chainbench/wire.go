package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/golovatskygroup/chainbench/internal/align"
	"github.com/golovatskygroup/chainbench/internal/catalog"
	"github.com/golovatskygroup/chainbench/internal/chain"
	"github.com/golovatskygroup/chainbench/internal/config"
	"github.com/golovatskygroup/chainbench/internal/executor"
	"github.com/golovatskygroup/chainbench/internal/filter"
	"github.com/golovatskygroup/chainbench/internal/llm"
	"github.com/golovatskygroup/chainbench/internal/planner"
	"github.com/golovatskygroup/chainbench/internal/scenario"
	"github.com/golovatskygroup/chainbench/internal/toolindex"
)

func newLLMClient(ep config.Endpoint) *llm.Client {
	return llm.NewClient(llm.Config{
		Endpoint: ep.URL,
		Model:    ep.Model,
		APIKey:   ep.APIKey,
		Timeout:  ep.Timeout,
	})
}

func newPlanner(cfg *config.Config, log *zap.Logger) (*planner.Client, *llm.Client) {
	client := newLLMClient(cfg.Planner.Endpoint)
	return planner.NewClient(client, planner.Options{
		RepairJSON: cfg.Planner.RepairJSON,
		Logger:     log.Named("planner"),
	}), client
}

// buildIndex returns the configured tool index and a release func for any
// resources it holds.
func buildIndex(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, log *zap.Logger) (toolindex.Index, func(), error) {
	noop := func() {}
	if cfg.Index.Kind != config.IndexEmbedding {
		return toolindex.NewLexicalIndex(cat), noop, nil
	}

	opts := toolindex.EmbedderOptions{CacheSize: cfg.Index.CacheSize, Logger: log}
	release := noop
	if cfg.Index.CachePath != "" {
		store, err := toolindex.OpenSQLiteCache(cfg.Index.CachePath)
		if err != nil {
			return nil, nil, err
		}
		opts.Store = store
		release = func() {
			if err := store.Close(); err != nil {
				log.Warn("close embedding cache", zap.Error(err))
			}
		}
	}
	client := llm.NewClient(llm.Config{
		Endpoint: cfg.Index.Endpoint,
		APIKey:   cfg.Router.APIKey,
		Timeout:  cfg.Router.Timeout,
	})
	emb, err := toolindex.NewCachedEmbedder(client, cfg.Index.Model, opts)
	if err != nil {
		release()
		return nil, nil, err
	}
	idx, err := toolindex.BuildEmbeddingIndex(ctx, cat, emb, toolindex.BuildOptions{
		BatchSize:   cfg.Index.BatchSize,
		Concurrency: cfg.Index.Concurrency,
		Logger:      log,
	})
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("build embedding index: %w", err)
	}
	return idx, release, nil
}

// pipeline is the assembled chain runner plus what the run command reports on.
type pipeline struct {
	chains  *chain.Runner
	router  *llm.Client
	planner *llm.Client
	release func()
}

func buildPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pipeline, error) {
	cat := catalog.Default()
	index, release, err := buildIndex(ctx, cfg, cat, log.Named("index"))
	if err != nil {
		return nil, err
	}
	memo, err := filter.New(cfg.Filter.MemoSize)
	if err != nil {
		release()
		return nil, err
	}

	router := newLLMClient(cfg.Router.Endpoint)
	ex, err := executor.New(router, executor.Options{
		Catalog:          cat,
		Index:            index,
		Filter:           memo,
		TopK:             cfg.Router.TopK,
		Retry:            cfg.Router.Retry,
		NativeTools:      cfg.Router.NativeTools,
		DetectDeflection: cfg.Router.DetectDeflection,
		Logger:           log.Named("executor"),
	})
	if err != nil {
		release()
		return nil, err
	}
	pl, plannerClient := newPlanner(cfg, log)

	runner := chain.NewRunner(pl, align.Greedy{Weights: cfg.Align}, ex, chain.Options{
		MaxSteps: cfg.Planner.MaxSteps,
		Logger:   log.Named("chain"),
	})
	return &pipeline{chains: runner, router: router, planner: plannerClient, release: release}, nil
}

// loadScenarios reads the configured set, or the built-in one, and checks it
// against the tool catalog.
func loadScenarios(cfg *config.Config) (*scenario.Set, error) {
	var (
		set *scenario.Set
		err error
	)
	if cfg.Scenarios.File != "" {
		set, err = scenario.LoadFile(cfg.Scenarios.File)
	} else {
		set, err = scenario.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := set.CheckTools(catalog.Default()); err != nil {
		return nil, err
	}
	return set, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
