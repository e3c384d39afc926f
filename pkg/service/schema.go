package service

import (
	"context"
	"fmt"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/db/migrate"
	"github.com/mpapenbr/stationlog/pkg/model"
)

// SchemaManager owns the table lifecycle
type SchemaManager struct {
	*deps
	log        *log.Logger
	dbPath     string
	migrate    func(dbPath string) error
	session    *SessionService
	aggregator *OutputAggregator
}

func NewSchemaManager(
	dbPath string,
	session *SessionService,
	aggregator *OutputAggregator,
	opts ...Option,
) *SchemaManager {
	return &SchemaManager{
		deps:       newDeps(opts),
		log:        log.Default().Named("service.schema"),
		dbPath:     dbPath,
		migrate:    migrate.MigrateDB,
		session:    session,
		aggregator: aggregator,
	}
}

// EnsureSchema applies the migrations if any of the expected tables is
// missing. It reports whether tables had to be created.
func (s *SchemaManager) EnsureSchema(ctx context.Context) (bool, error) {
	n, err := s.countTables(ctx)
	if err != nil {
		return false, err
	}
	if n >= len(migrate.ExpectedTables) {
		return false, nil
	}
	s.log.Info("creating tables",
		log.Int("present", n), log.Int("expected", len(migrate.ExpectedTables)))
	if err := s.migrate(s.dbPath); err != nil {
		s.log.Error("migration failed", log.ErrorField(err))
		return false, err
	}
	if n, err = s.countTables(ctx); err != nil {
		return false, err
	}
	if n < len(migrate.ExpectedTables) {
		// the migration is already recorded, a table was dropped afterwards
		s.log.Warn("tables missing after migration, applying init statements",
			log.Int("present", n))
		if err := s.applyInit(ctx); err != nil {
			return false, err
		}
		if n, err = s.countTables(ctx); err != nil {
			return false, err
		}
	}
	if n < len(migrate.ExpectedTables) {
		return false, fmt.Errorf("%w: %d of %d tables present",
			model.ErrStorage, n, len(migrate.ExpectedTables))
	}
	return true, nil
}

func (s *SchemaManager) countTables(ctx context.Context) (int, error) {
	return s.repos.Schema().CountTables(ctx, migrate.ExpectedTables)
}

func (s *SchemaManager) applyInit(ctx context.Context) error {
	stmts, err := migrate.InitStatements()
	if err != nil {
		return err
	}
	return s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		return s.repos.Schema().Apply(ctx, stmts)
	})
}

// ResetTable deletes all rows of one of the managed tables.
// The output is rebuilt afterwards. Resetting the stations also drops
// the event metadata and the session.
func (s *SchemaManager) ResetTable(ctx context.Context, name string) (int, error) {
	n := 0
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if n, err = s.repos.Schema().ResetTable(ctx, name); err != nil {
			return err
		}
		if name == "stations" {
			if _, err = s.repos.Settings().Delete(ctx, eventKey); err != nil {
				return err
			}
			if err = s.session.Clear(ctx); err != nil {
				return err
			}
		}
		_, err = s.aggregator.rebuildAll(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("table reset", log.String("table", name), log.Int("rows", n))
	return n, nil
}
