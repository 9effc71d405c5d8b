// Package migrations содержит схему журнала отправок.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
