package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/golovatskygroup/chainbench/internal/catalog"
)

func newToolsCommand(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog, or rank it against --query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := catalog.Default()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if query == "" {
				printf(tw, "TOOL\tDESCRIPTION\n")
				for _, t := range cat.All() {
					printf(tw, "%s\t%s\n", t.Name, t.Description)
				}
				return tw.Flush()
			}

			index, release, err := buildIndex(cmd.Context(), a.cfg, cat, a.log.Named("index"))
			if err != nil {
				return err
			}
			defer release()
			matches, err := index.Search(cmd.Context(), query, a.cfg.Router.TopK)
			if err != nil {
				return err
			}
			printf(tw, "RANK\tTOOL\tSCORE\n")
			for i, m := range matches {
				printf(tw, "%d\t%s\t%.3f\n", i+1, m.Name, m.Score)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Rank tools by relevance to this text")
	cmd.Flags().Int("top-k", 15, "How many ranked tools to show (0 shows all)")
	cmd.Flags().String("index", "lexical", "Tool index: lexical or embedding")
	return cmd
}
