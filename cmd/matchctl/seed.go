package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"opportunity-matcher/internal/usecase"
)

func init() {
	var (
		community string
		limit     int
		postedBy  string
	)
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create community opportunities from catalog templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := container.Catalog.Templates()
			if limit > 0 && limit < len(templates) {
				templates = templates[:limit]
			}

			created := 0
			for _, tpl := range templates {
				_, ok := container.Opportunities.Create(cmd.Context(), usecase.CreateOpportunityInput{
					Community:    community,
					Title:        tpl.Title,
					Description:  tpl.Description,
					Category:     tpl.Category,
					Tags:         tpl.Tags,
					Requirements: tpl.Skills,
					PostedBy:     postedBy,
					Metadata:     map[string]any{"company": tpl.Company, "type": tpl.Type},
				})
				if !ok {
					return fmt.Errorf("seed stopped after %d opportunities: store write failed", created)
				}
				created++
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d opportunities into %q\n", created, community)
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&community, "community", "c", "", "Target community (required)")
	seedCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Seed only the first N templates")
	seedCmd.Flags().StringVar(&postedBy, "posted-by", "", "Username recorded as the poster")
	_ = seedCmd.MarkFlagRequired("community")
	rootCmd.AddCommand(seedCmd)
}
