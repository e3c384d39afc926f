package bob

import (
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/stationlog/pkg/repository/api"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/event"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/output"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/runner"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/schema"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/settings"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/station"
)

type bobRepositories struct {
	runnerRepository   api.RunnerRepository
	stationRepository  api.StationRepository
	eventRepository    api.EventRepository
	outputRepository   api.OutputRepository
	settingsRepository api.SettingsRepository
	schemaRepository   api.SchemaRepository
}

var _ api.Repositories = (*bobRepositories)(nil)

func NewRepositories(db bob.DB) api.Repositories {
	return &bobRepositories{
		runnerRepository:   runner.NewRunnerRepository(db),
		stationRepository:  station.NewStationRepository(db),
		eventRepository:    event.NewEventRepository(db),
		outputRepository:   output.NewOutputRepository(db),
		settingsRepository: settings.NewSettingsRepository(db),
		schemaRepository:   schema.NewSchemaRepository(db),
	}
}

func (r *bobRepositories) Runner() api.RunnerRepository {
	return r.runnerRepository
}

func (r *bobRepositories) Station() api.StationRepository {
	return r.stationRepository
}

func (r *bobRepositories) Event() api.EventRepository {
	return r.eventRepository
}

func (r *bobRepositories) Output() api.OutputRepository {
	return r.outputRepository
}

func (r *bobRepositories) Settings() api.SettingsRepository {
	return r.settingsRepository
}

func (r *bobRepositories) Schema() api.SchemaRepository {
	return r.schemaRepository
}
