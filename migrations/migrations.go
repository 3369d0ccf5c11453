// Package migrations embeds the goose SQL migrations so the migrate
// command (and integration test helpers) ship a single binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
