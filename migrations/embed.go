// Package migrations embeds the SQL migrations for the reference schema.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
