package migrate

import (
	"embed"
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

const initScript = "migrations/000001_init.up.sql"

// ExpectedTables lists the tables created by the migrations
var ExpectedTables = []string{"start_list", "events", "stations", "output", "settings"}

func dbURL(dbPath string) string {
	return "sqlite://" + dbPath
}

func newMigrate(dbPath string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", source, dbURL(dbPath))
}

// MigrateDB applies all pending migrations to the database file at dbPath
func MigrateDB(dbPath string) error {
	m, err := newMigrate(dbPath)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// InitStatements returns the statements of the initial migration.
// They only use "if not exists" and can be applied to a partial schema.
func InitStatements() ([]string, error) {
	data, err := migrations.ReadFile(initScript)
	if err != nil {
		return nil, err
	}
	ret := []string{}
	for _, stmt := range strings.Split(string(data), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			ret = append(ret, stmt)
		}
	}
	return ret, nil
}

// DropDB rolls back all migrations
func DropDB(dbPath string) error {
	m, err := newMigrate(dbPath)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
