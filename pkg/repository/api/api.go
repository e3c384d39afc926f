package api

import (
	"context"
	"time"

	"github.com/mpapenbr/stationlog/pkg/model"
)

type Repositories interface {
	Runner() RunnerRepository
	Station() StationRepository
	Event() EventRepository
	Output() OutputRepository
	Settings() SettingsRepository
	Schema() SchemaRepository
}

type RunnerRepository interface {
	Create(ctx context.Context, runner *model.Runner) error
	CreateBulk(ctx context.Context, runners []*model.Runner) (int, error)
	LoadByBib(ctx context.Context, bib int) (*model.Runner, error)
	LoadAll(ctx context.Context) ([]*model.Runner, error)
	// UpdateStatus persists the dns/dnf related fields of runner
	UpdateStatus(ctx context.Context, runner *model.Runner) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

type StationRepository interface {
	// Create stores the station. position is the index within the station file.
	Create(ctx context.Context, position int, station *model.Station) error
	LoadByIdentifier(ctx context.Context, identifier string) (*model.Station, error)
	LoadByStationID(ctx context.Context, stationID int) (*model.Station, error)
	// LoadAll returns the stations in file order
	LoadAll(ctx context.Context) ([]*model.Station, error)
	LoadStationIDs(ctx context.Context) ([]int, error)
	UpdateOperators(ctx context.Context, identifier string, ops model.Operators) (int, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *model.NewEvent, lastChanged time.Time) (
		*model.Event, error)
	LoadByID(ctx context.Context, id int64) (*model.Event, error)
	// LoadByBib returns the events ordered by station, lastChanged and id
	LoadByBib(ctx context.Context, bib int) ([]*model.Event, error)
	LoadByStation(ctx context.Context, stationID int) ([]*model.Event, error)
	LoadAll(ctx context.Context) ([]*model.Event, error)
	LoadUnsent(ctx context.Context) ([]*model.Event, error)
	MarkSent(ctx context.Context, ids []int64) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

type OutputRepository interface {
	Upsert(ctx context.Context, row *model.OutputRow) error
	LoadByBib(ctx context.Context, bib int) (*model.OutputRow, error)
	LoadAll(ctx context.Context) ([]*model.OutputRow, error)
	DeleteByBib(ctx context.Context, bib int) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

// SettingsRepository stores JSON encoded values by key
type SettingsRepository interface {
	Put(ctx context.Context, key string, value any) error
	// Get decodes the stored value into target, ErrNotFound if key is unknown
	Get(ctx context.Context, key string, target any) error
	Delete(ctx context.Context, key string) (int, error)
}

type SchemaRepository interface {
	// CountTables returns how many of the given tables exist
	CountTables(ctx context.Context, names []string) (int, error)
	// ResetTable deletes all rows of a table
	ResetTable(ctx context.Context, name string) (int, error)
	// Apply executes the given DDL statements
	Apply(ctx context.Context, stmts []string) error
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
