package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/golovatskygroup/chainbench/internal/config"
	"github.com/golovatskygroup/chainbench/internal/logging"
	"github.com/golovatskygroup/chainbench/internal/telemetry"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
	tracing    *telemetry.Provider
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "chainbench",
		Short:         "Benchmark multi-step tool orchestration of a planner and a router model",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console or json")
	pf.String("endpoint", "", "Router model endpoint (OpenAI-compatible)")
	pf.String("planner-endpoint", "", "Planner model endpoint; defaults to --endpoint")

	root.AddCommand(
		newRunCommand(a),
		newPlanCommand(a),
		newScenariosCommand(a),
		newToolsCommand(a),
	)
	return root, a
}

// execute runs root and releases the logger and tracer afterwards. Cobra
// skips post-run hooks when a command fails, so the cleanup lives here.
func execute(ctx context.Context, root *cobra.Command, a *app) (err error) {
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return root.ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, a.configPath)
	if err != nil {
		return err
	}
	log, _, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	tp, err := telemetry.Setup(cmd.Context(), cfg.Tracing, version)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.tracing = cfg, log, tp
	return nil
}

// close is safe to call more than once.
func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
		a.log = nil
	}
	if a.tracing == nil {
		return nil
	}
	tp := a.tracing
	a.tracing = nil
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return tp.Shutdown(ctx)
}
