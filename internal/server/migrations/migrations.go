// Package migrations embeds the goose SQL migrations for the SQL-backed
// credential stores, one directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
