// Package migrations manages the database schema. The SQL files are
// embedded in the binary and applied in lexical order; applied names
// are tracked in the schema_migrations table.
package migrations

import "embed"

// files holds every .sql migration in this directory. Ordering relies
// on the NNN_ prefix.
//
//go:embed *.sql
var files embed.FS
