// Package migrations embeds the goose SQL migrations that create and evolve
// the database schema. They are applied at server startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
