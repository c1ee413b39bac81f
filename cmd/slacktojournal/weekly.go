package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWeeklyCmd() *cobra.Command {
	var (
		dateArg string
		user    string
		upload  bool
	)

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Generate the journal for the work week containing a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveDate(dateArg)
			if err != nil {
				return err
			}

			a := buildApp(runOverrides{
				user:      user,
				uploadSet: cmd.Flags().Changed("upload"),
				upload:    upload,
			})
			defer a.close()

			result, err := a.service.GenerateWeekly(cmd.Context(), target)
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "any date inside the target week (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&user, "user", "", "restrict the journal to one author")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the journal to Google Drive")

	return cmd
}

// resolveDate parses a YYYY-MM-DD flag value, defaulting to now.
func resolveDate(v string) (time.Time, error) {
	if v == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return t, nil
}
