package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nbd-crr/internal/app"
	"nbd-crr/internal/services"
)

func newNextSerialCmd(a *app.App) *cobra.Command {
	var kind string
	var reserve bool

	cmd := &cobra.Command{
		Use:   "next-serial",
		Short: "Следующий номер заявки или коммерческого предложения",
		RunE: func(cmd *cobra.Command, args []string) error {
			next := a.Sequences.Preview
			if reserve {
				next = a.Sequences.Reserve
			}
			value, err := next(cmd.Context(), kind)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", services.SequenceEnquiry, "enquiry или quotation")
	cmd.Flags().BoolVar(&reserve, "reserve", false, "Зарезервировать номер в кеше")
	return cmd
}
