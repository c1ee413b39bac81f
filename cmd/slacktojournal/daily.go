package main

import (
	"github.com/spf13/cobra"
)

func newDailyCmd() *cobra.Command {
	var (
		dateArg string
		user    string
		upload  bool
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Generate the journal for a single day",
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

			result, err := a.service.GenerateDaily(cmd.Context(), target)
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "target day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&user, "user", "", "restrict the journal to one author")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the journal to Google Drive")

	return cmd
}
