package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/golovatskygroup/chainbench/internal/scenario"
)

func newScenariosCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenario catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadScenarios(a.cfg)
			if err != nil {
				return err
			}
			d, err := scenario.ParseDifficulty(a.cfg.Scenarios.Difficulty)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printf(tw, "ID\tDIFFICULTY\tSTEPS\tDESCRIPTION\n")
			for _, sc := range set.Filter(d) {
				printf(tw, "%s\t%s\t%d\t%s\n", sc.ID, sc.Difficulty, len(sc.Steps), sc.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("difficulty", "", "Only list scenarios of this difficulty")
	cmd.Flags().String("scenarios", "", "YAML scenario file; defaults to the built-in set")
	return cmd
}
