package service

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
)

func TestFacade_Imports(t *testing.T) {
	f := NewFacade(newTestServices(t))
	ctx := context.Background()

	res := f.ImportRoster(ctx, []byte(basedata.RosterJSON))
	assert.Equal(t, model.StatusCreated, res.Status)
	assert.Equal(t, 3, res.Data)
	assert.Equal(t, "3 runners imported", res.Message)

	res = f.ImportStations(ctx, []byte(basedata.StationsJSON), ImportReject)
	assert.Equal(t, model.StatusCreated, res.Status)
	assert.Equal(t, "3 stations imported", res.Message)

	res = f.ImportStations(ctx, []byte(basedata.StationsJSON), ImportReject)
	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, 0, res.Data)
	assert.Check(t, is.Contains(res.Message, "already loaded"))

	res = f.ImportRoster(ctx, []byte("{"))
	assert.Equal(t, model.StatusError, res.Status)
}

func TestFacade_Lookups(t *testing.T) {
	f := NewFacade(loaded(t))
	ctx := context.Background()

	runner := f.LookupRunnerByBib(ctx, 102)
	assert.Equal(t, model.StatusSuccess, runner.Status)
	assert.Equal(t, 102, runner.Data.Bib)

	missing := f.LookupRunnerByBib(ctx, 4711)
	assert.Equal(t, model.StatusNotFound, missing.Status)
	assert.Check(t, missing.Data == nil)

	station := f.GetStationByIdentifier(ctx, "2-blanks")
	assert.Equal(t, model.StatusSuccess, station.Status)
	assert.Equal(t, "2-blanks", station.Data.Identifier)
	assert.Equal(t, model.StatusNotFound, f.GetStationByIdentifier(ctx, "x").Status)
	byID := f.GetStationByID(ctx, 2)
	assert.Equal(t, model.StatusSuccess, byID.Status)
	assert.Equal(t, "2-blanks", byID.Data.Identifier)
	assert.Equal(t, model.StatusNotFound, f.GetStationByID(ctx, 7).Status)
	assert.Equal(t, model.StatusNotFound, f.GetEvent(ctx, 1).Status)

	assert.Equal(t, model.StatusNotFound, f.CurrentSession(ctx).Status)
	assert.Equal(t, model.StatusNotFound, f.GetOutputRow(ctx, 4711).Status)
	assert.Equal(t, model.StatusNotFound, f.RebuildOutput(ctx, 4711).Status)
	assert.Equal(t, model.StatusError, f.ResetTable(ctx, "nope").Status)
}

func TestFacade_RecordForCurrentStation(t *testing.T) {
	f := NewFacade(loaded(t))
	ctx := context.Background()
	in := null.From(basedata.At(time.Hour))

	res := f.RecordForCurrentStation(ctx, 101, in, null.Val[time.Time]{}, null.Val[string]{})
	assert.Equal(t, model.StatusNotFound, res.Status)

	assert.Equal(t, model.StatusSuccess, f.ActivateStation(ctx, "1-start").Status)
	res = f.RecordForCurrentStation(ctx, 101, in, null.Val[time.Time]{}, null.Val[string]{})
	assert.Equal(t, model.StatusCreated, res.Status)
	assert.Equal(t, 1, res.Data.StationID)

	events := f.ListEvents(ctx, 101)
	assert.Equal(t, model.StatusSuccess, events.Status)
	assert.Check(t, is.Len(events.Data, 1))

	out := f.ListOutput(ctx, true)
	assert.Equal(t, model.StatusSuccess, out.Status)
	assert.Check(t, is.Len(out.Data, 3))

	rebuilt := f.RebuildOutput(ctx, 0)
	assert.Equal(t, 3, rebuilt.Data)

	assert.Check(t, is.Len(f.ListEventsAtStation(ctx, 1).Data, 1))
	assert.Check(t, is.Len(f.ListEventsAtStation(ctx, 2).Data, 0))
	assert.Check(t, is.Len(f.ListUnsentEvents(ctx).Data, 1))
	assert.Equal(t, 101, f.GetEvent(ctx, res.Data.ID).Data.Bib)

	sent := f.MarkEventsSent(ctx, []int64{res.Data.ID})
	assert.Equal(t, model.StatusSuccess, sent.Status)
	assert.Equal(t, 1, sent.Data)
	assert.Check(t, is.Len(f.ListUnsentEvents(ctx).Data, 0))
	assert.Equal(t, model.StatusError, f.MarkEventsSent(ctx, nil).Status)
}
