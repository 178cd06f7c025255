package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"opportunity-matcher/internal/domain/profile"
	"opportunity-matcher/internal/usecase"
)

type profileFlags struct {
	skills    []string
	interests []string
	tags      []string
	bio       string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.skills, "skills", nil, "Comma separated skills")
	cmd.Flags().StringSliceVar(&f.interests, "interests", nil, "Comma separated interests")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "Comma separated tags")
	cmd.Flags().StringVar(&f.bio, "bio", "", "Free text bio")
}

func (f *profileFlags) profile() profile.UserProfile {
	return profile.UserProfile{
		Skills:    f.skills,
		Interests: f.interests,
		Tags:      f.tags,
		Bio:       f.bio,
	}
}

func init() {
	catalogCmd := &cobra.Command{Use: "catalog", Short: "Inspect and rank the curated catalog"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every catalog template",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Title", "Type", "Category", "Company", "Days", "Tags"})
			for _, tpl := range container.Catalog.Templates() {
				t.AppendRow(table.Row{tpl.Title, tpl.Type, tpl.Category, tpl.Company, tpl.UrgencyDays, strings.Join(tpl.Tags, ", ")})
			}
			t.AppendFooter(table.Row{"", "", "", "Total", container.Catalog.Len()})
			t.Render()
			return nil
		},
	}
	catalogCmd.AddCommand(listCmd)

	var (
		rankProfile profileFlags
		topN        int
		minScore    int
	)
	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the catalog for a profile given on the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := container.Ranker.PersonalizedOpportunities(rankProfile.profile(), topN, minScore)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Match", "Title", "Company", "Urgency", "Matched tags"})
			for i, m := range items {
				t.AppendRow(table.Row{i + 1, m.Match, m.Title, m.Company, m.UrgencyIcon + " " + m.Urgency, strings.Join(m.MatchedTags, ", ")})
			}
			t.Render()
			return nil
		},
	}
	rankProfile.register(recommendCmd)
	recommendCmd.Flags().IntVar(&topN, "top", usecase.DefaultCatalogTopN, "Number of templates to keep")
	recommendCmd.Flags().IntVar(&minScore, "min", usecase.DefaultCatalogMin, "Minimum match percentage")
	catalogCmd.AddCommand(recommendCmd)

	var statsProfile profileFlags
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize how well the catalog fits a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := container.Ranker.CatalogStats(statsProfile.profile())

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Total", "High (>=70)", "Medium (50-69)", "Urgent (<=7d)"})
			t.AppendRow(table.Row{st.Total, st.HighMatch, st.MediumMatch, st.Urgent})
			t.Render()
			return nil
		},
	}
	statsProfile.register(statsCmd)
	catalogCmd.AddCommand(statsCmd)

	rootCmd.AddCommand(catalogCmd)
}
