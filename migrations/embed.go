// Package migrations ships the marketplace schema inside the binary.
// cmd/api applies it on start when MIGRATE_ON_START is set.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
