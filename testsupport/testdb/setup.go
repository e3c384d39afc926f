package testdb

import (
	"path/filepath"
	"testing"

	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/stationlog/pkg/db/migrate"
	"github.com/mpapenbr/stationlog/pkg/db/sqlite"
)

// DBPath returns the path of a fresh (not yet created) database file
func DBPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "stationlog.db")
}

// InitTestDB creates a migrated database in a temp dir.
// The connection is closed when the test finishes.
func InitTestDB(t testing.TB) bob.DB {
	t.Helper()
	db, _ := InitTestDBWithPath(t)
	return db
}

// InitTestDBWithPath is InitTestDB for callers that need the file path
func InitTestDBWithPath(t testing.TB) (bob.DB, string) {
	t.Helper()
	path := DBPath(t)
	if err := migrate.MigrateDB(path); err != nil {
		t.Fatalf("initTestDB: migrate: %v", err)
	}
	return Open(t, path), path
}

// Open opens an existing database file without applying migrations
func Open(t testing.TB, path string) bob.DB {
	t.Helper()
	sqlDB, db, err := sqlite.InitWithPath(path)
	if err != nil {
		t.Fatalf("initTestDB: open: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}
