// Package migrations holds the schema of the ledger database.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file of this directory.
//
//go:embed *.sql
var FS embed.FS
