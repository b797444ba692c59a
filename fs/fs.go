package appfs

import (
	"embed"
	"io"
	"os"
)

// SeedPath is the embedded default roster & history.
const SeedPath = "assets/seed/roster.yaml"

// FS holds the embedded assets (seed, web & email templates) and the SQL migrations.
//go:embed all:assets migrations
var FS embed.FS

// OpenSeed opens the seed file at `path`, or the embedded one when `path` is empty.
func OpenSeed(path string) (io.ReadCloser, error) {
	if path == "" {
		return FS.Open(SeedPath)
	}
	return os.Open(path)
}
