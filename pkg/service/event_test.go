//nolint:funlen // ok for tests
package service

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
)

func TestEventLog_RecordEventValidation(t *testing.T) {
	in := basedata.At(time.Hour)
	tests := []struct {
		name    string
		event   *model.NewEvent
		wantErr error
	}{
		{name: "nil", event: nil, wantErr: model.ErrInvalidFormat},
		{name: "no times", event: basedata.NewEvent(101, 1, nil, nil), wantErr: model.ErrInvalidFormat},
		{name: "station zero", event: basedata.NewEvent(101, 0, &in, nil), wantErr: model.ErrInvalidFormat},
		{name: "station 21", event: basedata.NewEvent(101, 21, &in, nil), wantErr: model.ErrInvalidFormat},
		{name: "bad bib", event: basedata.NewEvent(0, 1, &in, nil), wantErr: model.ErrInvalidFormat},
		{name: "unknown bib accepted", event: basedata.NewEvent(999, 1, &in, nil)},
		{name: "out only", event: basedata.NewEvent(101, 20, nil, &in)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t)
			got, err := s.Events.RecordEvent(context.Background(), tt.event)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Positive(t, got.ID)
		})
	}
}

func TestEventLog_SplitSheet(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	t1 := basedata.At(time.Hour)
	t2 := basedata.At(2 * time.Hour)
	t3 := basedata.At(3 * time.Hour)

	for _, ev := range []*model.NewEvent{
		basedata.NewEvent(101, 1, &t1, nil),
		basedata.NewEvent(101, 1, &t1, &t2),
		basedata.NewEvent(101, 2, &t3, nil),
	} {
		_, err := s.Events.RecordEvent(ctx, ev)
		assert.NoError(t, err)
	}

	row, err := s.Output.Get(ctx, 101)
	assert.NoError(t, err)
	assert.Equal(t, model.Split{In: null.From(t1), Out: null.From(t2)}, row.Splits[0])
	assert.Equal(t, model.Split{In: null.From(t3)}, row.Splits[1])
	for i := 2; i < model.MaxStations; i++ {
		assert.Equal(t, model.Split{}, row.Splits[i], "station %d", i+1)
	}
	assert.True(t, row.LastChanged.IsValue())
}

func TestEventLog_UnknownBibHasNoOutput(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	in := basedata.At(time.Hour)
	_, err := s.Events.RecordEvent(ctx, basedata.NewEvent(999, 1, &in, nil))
	assert.NoError(t, err)
	_, err = s.Output.Get(ctx, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEventLog_LastChangedFromClock(t *testing.T) {
	fixed := basedata.At(42 * time.Minute)
	s := loaded(t, WithClock(func() time.Time { return fixed }))
	in := basedata.At(time.Hour)
	ev, err := s.Events.RecordEvent(context.Background(), basedata.NewEvent(101, 1, &in, nil))
	assert.NoError(t, err)
	assert.Equal(t, fixed, ev.LastChanged)
}

func TestEventLog_WithoutRebuildOnWrite(t *testing.T) {
	s := loaded(t, WithRebuildOnWrite(false))
	ctx := context.Background()
	in := basedata.At(time.Hour)
	_, err := s.Events.RecordEvent(ctx, basedata.NewEvent(101, 1, &in, nil))
	assert.NoError(t, err)

	row, err := s.Output.Get(ctx, 101)
	assert.NoError(t, err)
	assert.True(t, row.Splits[0].In.IsNull())

	_, err = s.Output.RebuildOutputFor(ctx, 101)
	assert.NoError(t, err)
	row, err = s.Output.Get(ctx, 101)
	assert.NoError(t, err)
	assert.Equal(t, null.From(in), row.Splits[0].In)
}

func TestEventLog_RecordForSession(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	in := null.From(basedata.At(time.Hour))

	_, err := s.Events.RecordForSession(ctx, nil, 101, in, null.Val[time.Time]{},
		null.Val[string]{})
	assert.ErrorIs(t, err, model.ErrConstraintViolation)

	session, err := s.Session.ActivateStation(ctx, "2-blanks")
	assert.NoError(t, err)
	ev, err := s.Events.RecordForSession(ctx, session, 101, in, null.Val[time.Time]{},
		null.From("water refill"))
	assert.NoError(t, err)
	assert.Equal(t, 2, ev.StationID)

	events, err := s.Events.ListByStation(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "water refill", *events[0].Note.Ptr())
}

func TestEventLog_SentAndClear(t *testing.T) {
	s := loaded(t)
	ctx := context.Background()
	in := basedata.At(time.Hour)
	ids := make([]int64, 0, 3)
	for _, bib := range []int{101, 102, 103} {
		ev, err := s.Events.RecordEvent(ctx, basedata.NewEvent(bib, 1, &in, nil))
		assert.NoError(t, err)
		ids = append(ids, ev.ID)
	}
	n, err := s.Events.MarkSent(ctx, ids[1:])
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	unsent, err := s.Events.ListUnsent(ctx)
	assert.NoError(t, err)
	assert.Len(t, unsent, 1)

	byBib, err := s.Events.ListByBib(ctx, 102)
	assert.NoError(t, err)
	assert.True(t, byBib[0].Sent)
	one, err := s.Events.Get(ctx, ids[0])
	assert.NoError(t, err)
	assert.False(t, one.Sent)
	_, err = s.Events.Get(ctx, 4711)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.Events.MarkSent(ctx, nil)
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
	atStation, err := s.Events.ListByStation(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, atStation, 3)

	n, err = s.Events.Clear(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	all, err := s.Events.ListAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
	row, err := s.Output.Get(ctx, 101)
	assert.NoError(t, err)
	assert.True(t, row.Splits[0].In.IsNull())
}
