// Package migrations holds the SQL schema, embedded so the binary can migrate itself.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
