package migrations

import "embed"

// JournalFS holds the event journal and metadata schema.
//
//go:embed journal/*.sql
var JournalFS embed.FS
