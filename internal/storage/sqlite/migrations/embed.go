// Package migrations embeds the SQLite schema migrations.
package migrations

import "embed"

// FS holds the migration files, applied in file name order
//
//go:embed *.sql
var FS embed.FS
