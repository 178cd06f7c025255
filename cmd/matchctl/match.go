package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"opportunity-matcher/internal/usecase"
)

func init() {
	var (
		topK     int
		minScore float64
	)
	matchCmd := &cobra.Command{
		Use:   "match COMMUNITY USERNAME",
		Short: "Rank a community's active opportunities for a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			community, username := args[0], args[1]
			results := usecase.FilterByMinScore(container.Ranker.MatchOpportunities(cmd.Context(), username, community, topK), minScore)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Score", "Title", "Skills", "Interests", "Activity", "Bio", "Matched"})
			for i, m := range results {
				b := m.Breakdown
				t.AppendRow(table.Row{
					i + 1,
					fmt.Sprintf("%.3f", m.MatchScore),
					m.Opportunity.Title,
					fmt.Sprintf("%.3f", b.Skills),
					fmt.Sprintf("%.3f", b.Interests),
					fmt.Sprintf("%.3f", b.Activity),
					fmt.Sprintf("%.3f", b.Bio),
					strings.Join(append(append([]string{}, m.MatchedRequirements...), m.MatchedTags...), ", "),
				})
			}
			t.Render()
			return nil
		},
	}
	matchCmd.Flags().IntVarP(&topK, "top-k", "k", usecase.RecommendationTopK, "Number of opportunities to rank")
	matchCmd.Flags().Float64Var(&minScore, "min-score", usecase.DefaultMinScore, "Drop results below this score")
	rootCmd.AddCommand(matchCmd)
}
