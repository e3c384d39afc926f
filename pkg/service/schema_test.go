package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/db/migrate"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
	"github.com/mpapenbr/stationlog/testsupport/testdb"
)

func TestSchemaManager_EnsureSchema(t *testing.T) {
	path := testdb.DBPath(t)
	s := New(testdb.Open(t, path), path)
	ctx := context.Background()

	created, err := s.Schema.EnsureSchema(ctx)
	assert.NoError(t, err)
	assert.True(t, created)

	created, err = s.Schema.EnsureSchema(ctx)
	assert.NoError(t, err)
	assert.False(t, created)

	n, err := s.Runners.ImportRoster(ctx, []byte(basedata.RosterJSON))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSchemaManager_EnsureSchemaRecreatesDroppedTable(t *testing.T) {
	db, path := testdb.InitTestDBWithPath(t)
	s := New(db, path)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "drop table settings")
	assert.NoError(t, err)

	created, err := s.Schema.EnsureSchema(ctx)
	assert.NoError(t, err)
	assert.True(t, created)
	n, err := s.Schema.repos.Schema().CountTables(ctx, migrate.ExpectedTables)
	assert.NoError(t, err)
	assert.Equal(t, len(migrate.ExpectedTables), n)

	_, err = s.Stations.ImportStations(ctx, []byte(basedata.StationsJSON), ImportReplace)
	assert.NoError(t, err)
	_, err = s.Session.ActivateStation(ctx, "1-start")
	assert.NoError(t, err)
}

func TestSchemaManager_ResetTable(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()

	n, err := s.Schema.ResetTable(ctx, "start_list")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	runners, err := s.Runners.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, runners)

	_, err = s.Schema.ResetTable(ctx, "sqlite_master")
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestSchemaManager_ResetEventsRebuildsOutput(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	in := basedata.At(time.Hour)
	_, err := s.Events.RecordEvent(ctx, basedata.NewEvent(101, 1, &in, nil))
	assert.NoError(t, err)

	n, err := s.Schema.ResetTable(ctx, "events")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	row, err := s.Output.Get(ctx, 101)
	assert.NoError(t, err)
	assert.True(t, row.Splits[0].In.IsNull())
}

func TestSchemaManager_ResetStationsDropsSession(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	_, err := s.Session.ActivateStation(ctx, "1-start")
	assert.NoError(t, err)
	in := basedata.At(time.Hour)
	_, err = s.Events.RecordEvent(ctx, basedata.NewEvent(101, 1, &in, nil))
	assert.NoError(t, err)

	n, err := s.Schema.ResetTable(ctx, "stations")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = s.Session.Current(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.Stations.GetEventInfo(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
	// without stations no event counts
	row, err := s.Output.Get(ctx, 101)
	assert.NoError(t, err)
	assert.True(t, row.Splits[0].In.IsNull())
}
