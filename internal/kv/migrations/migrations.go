// Package migrations embeds the SQL migration files for the kv table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
