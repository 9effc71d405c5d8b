package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nbd-crr/internal/app"
)

func newJournalCmd(a *app.App) *cobra.Command {
	var form string
	var limit uint64

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Последние отправки форм (нужен JOURNAL_ENABLED)",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.Submissions.Recent(cmd.Context(), form, limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Журнал пуст")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tFORM\tSHEET\tENQUIRY\tBY\tSTATUS")
			for _, s := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.CreatedAt.Format(time.DateTime), s.Form, s.SheetName, s.EnquiryNo.String, s.SubmittedBy, s.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&form, "form", "", "Только эта форма")
	cmd.Flags().Uint64Var(&limit, "limit", 20, "Сколько записей показать")
	return cmd
}
