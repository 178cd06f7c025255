package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Re-rank every community for every member once",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := container.Digest.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if rep.Skipped {
				cmd.Println("skipped: another instance is running the digest")
				return nil
			}

			communities := make([]string, 0, len(rep.Matched))
			for c := range rep.Matched {
				communities = append(communities, c)
			}
			sort.Strings(communities)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Community", "Users", "Matched"})
			for _, c := range communities {
				t.AppendRow(table.Row{c, rep.Users, rep.Matched[c]})
			}
			t.Render()
			return nil
		},
	}
	rootCmd.AddCommand(digestCmd)
}
