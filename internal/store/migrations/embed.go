package migrations

import "embed"

// FS contains the embedded SQLite migrations for the game database.
//
//go:embed *.sql
var FS embed.FS
