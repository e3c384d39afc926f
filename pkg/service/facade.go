//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// Facade is the query surface for UI and HTTP callers.
// Every operation returns a Response instead of an error.
type Facade struct {
	s *Services
}

func NewFacade(s *Services) *Facade {
	return &Facade{s: s}
}

func (f *Facade) ImportRoster(ctx context.Context, data []byte) model.Response[int] {
	n, err := f.s.Runners.ImportRoster(ctx, data)
	if err != nil {
		return model.Failed[int](err)
	}
	return model.Created(n, fmt.Sprintf("%d runners imported", n))
}

func (f *Facade) ImportStations(
	ctx context.Context,
	data []byte,
	policy ImportPolicy,
) model.Response[int] {
	n, err := f.s.Stations.ImportStations(ctx, data, policy)
	if err != nil {
		return model.Failed[int](err)
	}
	return model.Created(n, fmt.Sprintf("%d stations imported", n))
}

func (f *Facade) ListRunners(ctx context.Context, dnfSort bool) model.Response[[]*model.Runner] {
	list := f.s.Runners.List
	if dnfSort {
		list = f.s.Runners.ListSorted
	}
	runners, err := list(ctx)
	if err != nil {
		return model.Failed[[]*model.Runner](err)
	}
	return model.Ok(runners, fmt.Sprintf("%d runners", len(runners)))
}

func (f *Facade) LookupRunnerByBib(ctx context.Context, bib int) model.Response[*model.Runner] {
	runner, err := f.s.Runners.LookupByBib(ctx, bib)
	if err != nil {
		return model.Failed[*model.Runner](err)
	}
	return model.Ok(runner, fmt.Sprintf("found runner %d", bib))
}

func (f *Facade) SetDNF(
	ctx context.Context,
	bib int,
	change model.DNFChange,
) model.Response[*model.Runner] {
	runner, err := f.s.Runners.SetDNF(ctx, bib, change)
	if err != nil {
		return model.Failed[*model.Runner](err)
	}
	return model.Ok(runner, fmt.Sprintf("runner %d set to %s", bib, runner.DNFType))
}

func (f *Facade) SetDNS(ctx context.Context, bib int, dns bool) model.Response[*model.Runner] {
	runner, err := f.s.Runners.SetDNS(ctx, bib, dns)
	if err != nil {
		return model.Failed[*model.Runner](err)
	}
	return model.Ok(runner, fmt.Sprintf("runner %d dns=%t", bib, dns))
}

func (f *Facade) ListStations(ctx context.Context) model.Response[[]*model.Station] {
	stations, err := f.s.Stations.GetAll(ctx)
	if err != nil {
		return model.Failed[[]*model.Station](err)
	}
	return model.Ok(stations, fmt.Sprintf("%d stations", len(stations)))
}

func (f *Facade) GetStationByIdentifier(
	ctx context.Context,
	identifier string,
) model.Response[*model.Station] {
	station, err := f.s.Stations.GetByIdentifier(ctx, identifier)
	if err != nil {
		return model.Failed[*model.Station](err)
	}
	return model.Ok(station, "found station with identifier: "+identifier)
}

func (f *Facade) GetStationByID(
	ctx context.Context,
	stationID int,
) model.Response[*model.Station] {
	station, err := f.s.Stations.GetByStationID(ctx, stationID)
	if err != nil {
		return model.Failed[*model.Station](err)
	}
	return model.Ok(station, fmt.Sprintf("found station with id: %d", stationID))
}

func (f *Facade) GetEventInfo(ctx context.Context) model.Response[*model.EventInfo] {
	info, err := f.s.Stations.GetEventInfo(ctx)
	if err != nil {
		return model.Failed[*model.EventInfo](err)
	}
	return model.Ok(info, info.Name)
}

func (f *Facade) ActivateStation(
	ctx context.Context,
	identifier string,
) model.Response[*model.Session] {
	session, err := f.s.Session.ActivateStation(ctx, identifier)
	if err != nil {
		return model.Failed[*model.Session](err)
	}
	return model.Ok(session, "station activated: "+identifier)
}

func (f *Facade) SetOperatorIdentity(
	ctx context.Context,
	identifier, callsign string,
) model.Response[*model.Session] {
	session, err := f.s.Session.SetOperatorIdentity(ctx, identifier, callsign)
	if err != nil {
		return model.Failed[*model.Session](err)
	}
	return model.Ok(session, "operator active: "+callsign)
}

func (f *Facade) CurrentSession(ctx context.Context) model.Response[*model.Session] {
	session, err := f.s.Session.Current(ctx)
	if err != nil {
		return model.Failed[*model.Session](err)
	}
	return model.Ok(session, "current station: "+session.Identifier)
}

func (f *Facade) RecordEvent(
	ctx context.Context,
	bib, stationID int,
	timeIn, timeOut null.Val[time.Time],
	note null.Val[string],
) model.Response[*model.Event] {
	event, err := f.s.Events.RecordEvent(ctx, &model.NewEvent{
		Bib:       bib,
		StationID: stationID,
		TimeIn:    timeIn,
		TimeOut:   timeOut,
		Note:      note,
	})
	if err != nil {
		return model.Failed[*model.Event](err)
	}
	return model.Created(event, fmt.Sprintf("event %d recorded", event.ID))
}

// RecordForCurrentStation records at the station of the persisted session
func (f *Facade) RecordForCurrentStation(
	ctx context.Context,
	bib int,
	timeIn, timeOut null.Val[time.Time],
	note null.Val[string],
) model.Response[*model.Event] {
	session, err := f.s.Session.Current(ctx)
	if err != nil {
		return model.Failed[*model.Event](err)
	}
	event, err := f.s.Events.RecordForSession(ctx, session, bib, timeIn, timeOut, note)
	if err != nil {
		return model.Failed[*model.Event](err)
	}
	return model.Created(event, fmt.Sprintf("event %d recorded", event.ID))
}

func (f *Facade) ListEvents(ctx context.Context, bib int) model.Response[[]*model.Event] {
	var events []*model.Event
	var err error
	if bib > 0 {
		events, err = f.s.Events.ListByBib(ctx, bib)
	} else {
		events, err = f.s.Events.ListAll(ctx)
	}
	if err != nil {
		return model.Failed[[]*model.Event](err)
	}
	return model.Ok(events, fmt.Sprintf("%d events", len(events)))
}

// ListEventsAtStation returns the events of one station in recording order
func (f *Facade) ListEventsAtStation(
	ctx context.Context,
	stationID int,
) model.Response[[]*model.Event] {
	events, err := f.s.Events.ListByStation(ctx, stationID)
	if err != nil {
		return model.Failed[[]*model.Event](err)
	}
	return model.Ok(events, fmt.Sprintf("%d events at station %d", len(events), stationID))
}

func (f *Facade) ListUnsentEvents(ctx context.Context) model.Response[[]*model.Event] {
	events, err := f.s.Events.ListUnsent(ctx)
	if err != nil {
		return model.Failed[[]*model.Event](err)
	}
	return model.Ok(events, fmt.Sprintf("%d unsent events", len(events)))
}

func (f *Facade) GetEvent(ctx context.Context, id int64) model.Response[*model.Event] {
	event, err := f.s.Events.Get(ctx, id)
	if err != nil {
		return model.Failed[*model.Event](err)
	}
	return model.Ok(event, fmt.Sprintf("found event %d", id))
}

func (f *Facade) MarkEventsSent(ctx context.Context, ids []int64) model.Response[int] {
	n, err := f.s.Events.MarkSent(ctx, ids)
	if err != nil {
		return model.Failed[int](err)
	}
	return model.Ok(n, fmt.Sprintf("%d events marked sent", n))
}

func (f *Facade) GetOutputRow(ctx context.Context, bib int) model.Response[*model.OutputRow] {
	row, err := f.s.Output.Get(ctx, bib)
	if err != nil {
		return model.Failed[*model.OutputRow](err)
	}
	return model.Ok(row, fmt.Sprintf("output row %d", bib))
}

func (f *Facade) ListOutput(
	ctx context.Context,
	dnfSort bool,
) model.Response[[]*model.OutputRow] {
	rows, err := f.s.Output.List(ctx, dnfSort)
	if err != nil {
		return model.Failed[[]*model.OutputRow](err)
	}
	return model.Ok(rows, fmt.Sprintf("%d output rows", len(rows)))
}

// RebuildOutput rebuilds one row if bib > 0, otherwise all rows
func (f *Facade) RebuildOutput(ctx context.Context, bib int) model.Response[int] {
	if bib > 0 {
		if _, err := f.s.Output.RebuildOutputFor(ctx, bib); err != nil {
			return model.Failed[int](err)
		}
		return model.Ok(1, fmt.Sprintf("output row %d rebuilt", bib))
	}
	n, err := f.s.Output.RebuildAll(ctx)
	if err != nil {
		return model.Failed[int](err)
	}
	return model.Ok(n, fmt.Sprintf("%d output rows rebuilt", n))
}

func (f *Facade) ResetTable(ctx context.Context, name string) model.Response[int] {
	n, err := f.s.Schema.ResetTable(ctx, name)
	if err != nil {
		return model.Failed[int](err)
	}
	return model.Ok(n, fmt.Sprintf("%d rows deleted from %s", n, name))
}
