// Package migrations embeds the SQL schema files for the local store and the
// remote mirror.
package migrations

import "embed"

// FS holds sqlite/*.sql (local store, applied by internal/migration) and
// postgres/*.sql (remote mirror, applied by goose).
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
