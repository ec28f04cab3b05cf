// Package migrations embeds the schema for every supported store.
package migrations

import "embed"

// FS holds sqlite/*.sql and postgres/*.sql in golang-migrate naming.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
