// Package migrations carries the SQLite schema migrations for the
// metadata store. Files are named NN_description.up.sql and applied in
// version order.
package migrations

import "embed"

// FS holds the migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
