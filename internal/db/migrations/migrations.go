// Package migrations embeds the goose SQL migration files so the binary
// carries its own schema and needs no separate migration step at deploy
// time.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
