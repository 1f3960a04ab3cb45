package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/golovatskygroup/chainbench/internal/planner"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <request>",
		Short: "Ask the planner to decompose one request and validate the plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, _ := newPlanner(a.cfg, a.log)
			res := pl.Plan(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if res.Err != nil {
				printf(out, "planner error (%s): %s\n", res.Err.Kind, res.Err.Message)
				if res.RawResponse != "" {
					printf(out, "raw response:\n%s\n", res.RawResponse)
				}
				return res.Err
			}

			b, err := json.MarshalIndent(res.Plan, "", "  ")
			if err != nil {
				return err
			}
			printf(out, "%s\n", b)
			v := planner.ValidatePlan(res.Plan, a.cfg.Planner.MaxSteps)
			if !v.Valid {
				printf(out, "invalid plan: %s (%dms)\n", v.Reason, res.DurationMs)
				return errors.New("invalid plan")
			}
			printf(out, "valid plan with %d steps (%dms)\n", len(res.Plan.Steps), res.DurationMs)
			return nil
		},
	}
}
