package migrations

import "embed"

// FS holds the numbered SQL migrations, one directory per database driver
//
//go:embed sqlite/*.sql
var FS embed.FS
