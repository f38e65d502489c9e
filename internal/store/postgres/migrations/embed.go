// Package migrations holds the goose SQL migrations for the Postgres store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
