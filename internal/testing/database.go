// Package testing holds fixtures shared by dlog tests. Import it as dlogtest.
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/teranos/dlog/db"
)

// CreateTestDB creates a migrated SQLite database in a temp directory.
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(filepath.Join(t.TempDir(), "fact_types.db"), zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
