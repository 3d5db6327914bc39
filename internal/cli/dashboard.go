package cli

import (
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the air quality report available to signed-in users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Dashboard

			if err := client.Get("/api/v1/dashboard", &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}
