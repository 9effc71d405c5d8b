package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nbd-crr/pkg/utils"
)

// hash-password печатает bcrypt-хэш для ADMIN_PASSWORD_HASH или колонки паролей DROPDOWN.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Хэш пароля для конфига или справочника",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
