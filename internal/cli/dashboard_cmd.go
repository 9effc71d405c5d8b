package cli

import (
	"github.com/spf13/cobra"

	"nbd-crr/internal/app"
)

func newDashboardCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Показатели дашборда в JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.Dashboard.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
