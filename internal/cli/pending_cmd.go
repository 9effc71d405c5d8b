package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nbd-crr/internal/app"
	"nbd-crr/internal/pipeline"
)

func stageNames() string {
	var names []string
	for _, l := range pipeline.Stages() {
		names = append(names, string(l.Stage))
	}
	return strings.Join(names, ", ")
}

func newPendingCmd(a *app.App) *cobra.Command {
	var stage string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Незакрытые задачи этапа",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.Stages.Pending(cmd.Context(), pipeline.Stage(stage))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ENQUIRY\tCOMPANY\tPRIORITY\tDAYS\tSTATUS")
			for _, t := range view.Pending {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.EnquiryNo, t.CompanyName, t.Priority, t.DaysText, t.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", view.Title, view.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "", "Этап: "+stageNames())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Вывести JSON")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}
