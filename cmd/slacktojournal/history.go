package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently archived journals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp(runOverrides{})
			defer a.close()

			if a.repository == nil {
				return fmt.Errorf("journal archive is not available")
			}

			entries, err := a.repository.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list archive: %w", err)
			}
			if len(entries) == 0 {
				cmd.Println("no archived journals")
				return nil
			}

			for _, entry := range entries {
				cmd.Printf("%s  %-6s  %s ~ %s  %3d messages  %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04"),
					entry.Kind,
					entry.PeriodStart.Format("2006-01-02"),
					entry.PeriodEnd.Format("2006-01-02"),
					entry.MessageCount,
					entry.ExportLocation)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of entries to show")

	return cmd
}
