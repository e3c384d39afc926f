package service

import (
	"github.com/stephenafamo/bob"

	bobRepos "github.com/mpapenbr/stationlog/pkg/repository/bob"
)

// Services wires all services onto one database
type Services struct {
	Schema   *SchemaManager
	Runners  *RunnerRegistry
	Stations *StationRegistry
	Session  *SessionService
	Events   *EventLog
	Output   *OutputAggregator
}

// New creates the services for the database at dbPath.
// opts are applied after the repository and transaction options.
func New(db bob.DB, dbPath string, opts ...Option) *Services {
	all := append([]Option{
		WithRepositories(bobRepos.NewRepositories(db)),
		WithTxManager(bobRepos.NewTransactionManager(db)),
	}, opts...)
	aggregator := NewOutputAggregator(all...)
	session := NewSessionService(all...)
	return &Services{
		Schema:   NewSchemaManager(dbPath, session, aggregator, all...),
		Runners:  NewRunnerRegistry(aggregator, all...),
		Stations: NewStationRegistry(session, aggregator, all...),
		Session:  session,
		Events:   NewEventLog(aggregator, all...),
		Output:   aggregator,
	}
}
