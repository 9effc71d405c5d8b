// Package cli - команды утилиты crrctl. Работают через те же сервисы,
// что и HTTP-сервер, с источником листов из конфига.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"nbd-crr/internal/app"
)

func NewRootCmd(a *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "crrctl",
		Short:         "Служебные команды NBD CRR",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newHashPasswordCmd(),
		newDashboardCmd(a),
		newPendingCmd(a),
		newNextSerialCmd(a),
		newJournalCmd(a),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
