package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jeff-002/SlackToJournal/internal/journal"
)

func newRetagCmd() *cobra.Command {
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "retag <file>",
		Short: "Normalize status tags and line terminators in an existing journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}

			normalized := journal.Retag(string(raw))

			if inPlace {
				if err := os.WriteFile(path, []byte(normalized), 0o644); err != nil {
					return fmt.Errorf("write journal: %w", err)
				}
				cmd.Printf("retagged %s\n", path)
				return nil
			}

			cmd.Print(normalized)
			if normalized != "" && normalized[len(normalized)-1] != '\n' {
				cmd.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite the file in place instead of printing")

	return cmd
}
