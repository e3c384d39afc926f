//nolint:funlen,errcheck //ok for this test code
package event

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
	"github.com/mpapenbr/stationlog/testsupport/testdb"
)

func TestCreate(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewEventRepository(db)
	ctx := context.Background()

	in := basedata.At(time.Minute).Add(123 * time.Microsecond)
	ev := basedata.NewEvent(101, 1, &in, nil)
	ev.Note = null.From("looked fine")
	lastChanged := basedata.At(2 * time.Minute)

	created, err := r.Create(ctx, ev, lastChanged)
	assert.NoError(t, err)
	assert.Positive(t, created.ID)
	gotIn, ok := created.TimeIn.Get()
	assert.True(t, ok)
	assert.Equal(t, basedata.At(time.Minute), gotIn)
	assert.True(t, created.TimeOut.IsNull())

	loaded, err := r.LoadByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created, loaded)

	_, err = r.LoadByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLoadOrdering(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewEventRepository(db)
	ctx := context.Background()
	t1 := basedata.At(time.Minute)

	// station 2 written first, station 1 corrected twice
	inputs := []struct {
		bib, station int
		changed      time.Duration
	}{
		{101, 2, 10 * time.Minute},
		{101, 1, 5 * time.Minute},
		{102, 1, 6 * time.Minute},
		{101, 1, 3 * time.Minute},
		{101, 1, 5 * time.Minute},
	}
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		e, err := r.Create(ctx, basedata.NewEvent(in.bib, in.station, &t1, nil),
			basedata.At(in.changed))
		assert.NoError(t, err)
		ids = append(ids, e.ID)
	}

	byBib, err := r.LoadByBib(ctx, 101)
	assert.NoError(t, err)
	got := make([]int64, 0, len(byBib))
	for _, e := range byBib {
		got = append(got, e.ID)
	}
	assert.Equal(t, []int64{ids[3], ids[1], ids[4], ids[0]}, got)

	byStation, err := r.LoadByStation(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, byStation, 4)

	all, err := r.LoadAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, len(inputs))
}

func TestMarkSent(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewEventRepository(db)
	ctx := context.Background()
	t1 := basedata.At(time.Minute)
	ids := make([]int64, 0, 3)
	for i := range 3 {
		e, err := r.Create(ctx, basedata.NewEvent(100+i, 1, &t1, nil), t1)
		assert.NoError(t, err)
		ids = append(ids, e.ID)
	}

	n, err := r.MarkSent(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = r.MarkSent(ctx, ids[:2])
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	unsent, err := r.LoadUnsent(ctx)
	assert.NoError(t, err)
	assert.Len(t, unsent, 1)
	assert.Equal(t, ids[2], unsent[0].ID)

	n, err = r.DeleteAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}
