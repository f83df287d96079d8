package database

import (
	"database/sql"
	"fmt"
	"os"
)

// Migrate applies the schema. It prefers docs/schema.sql so manual edits
// there take effect, and falls back to the embedded copy when the file is
// not reachable from the working directory (tests, installed binaries).
func Migrate(db *sql.DB) error {
	schema := Schema
	if b, err := os.ReadFile("docs/schema.sql"); err == nil {
		schema = string(b)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
