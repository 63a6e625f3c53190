// Package migrations embeds the trips schema migrations for use with the
// goose programmatic API.
package migrations

import "embed"

// FS holds the *.sql migration files embedded at compile time, so tests
// can apply the schema without knowing a filesystem path.
//
//go:embed *.sql
var FS embed.FS
