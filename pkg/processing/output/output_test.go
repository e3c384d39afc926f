//nolint:funlen // table driven
package output

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
)

func ev(id int64, bib, station int, in, out *time.Time, changed time.Duration) *model.Event {
	return &model.Event{
		ID:          id,
		Bib:         bib,
		StationID:   station,
		TimeIn:      null.FromPtr(in),
		TimeOut:     null.FromPtr(out),
		LastChanged: basedata.At(changed),
	}
}

func TestFoldSplitSheet(t *testing.T) {
	t1 := basedata.At(time.Hour)
	t2 := basedata.At(2 * time.Hour)
	t3 := basedata.At(3 * time.Hour)
	runner := basedata.SampleRunner(101)
	events := []*model.Event{
		ev(1, 101, 1, &t1, nil, time.Hour),
		ev(2, 101, 1, &t1, &t2, 2*time.Hour),
		ev(3, 101, 2, &t3, nil, 3*time.Hour),
	}

	row := Fold(runner, []int{1, 2, 3}, events)

	want := &model.OutputRow{Bib: 101, DNFType: model.DNFNone, LastChanged: null.From(basedata.At(3 * time.Hour))}
	want.Splits[0] = model.Split{In: null.From(t1), Out: null.From(t2)}
	want.Splits[1] = model.Split{In: null.From(t3)}
	assert.Equal(t, want, row)
}

func TestFoldRules(t *testing.T) {
	t1 := basedata.At(time.Hour)
	t2 := basedata.At(2 * time.Hour)
	tests := []struct {
		name    string
		events  []*model.Event
		wantIn  null.Val[time.Time]
		wantOut null.Val[time.Time]
	}{
		{
			name:   "later lastChanged wins",
			events: []*model.Event{ev(1, 1, 1, &t2, nil, 2*time.Hour), ev(2, 1, 1, &t1, nil, time.Hour)},
			wantIn: null.From(t2),
		},
		{
			name:   "tie broken by id",
			events: []*model.Event{ev(7, 1, 1, &t1, nil, time.Hour), ev(3, 1, 1, &t2, nil, time.Hour)},
			wantIn: null.From(t1),
		},
		{
			name: "null does not erase",
			events: []*model.Event{
				ev(1, 1, 1, &t1, nil, time.Hour),
				ev(2, 1, 1, nil, &t2, 2*time.Hour),
			},
			wantIn:  null.From(t1),
			wantOut: null.From(t2),
		},
		{
			name:   "other bib ignored",
			events: []*model.Event{ev(1, 2, 1, &t1, nil, time.Hour)},
		},
		{
			name:   "unregistered station ignored",
			events: []*model.Event{ev(1, 1, 5, &t1, nil, time.Hour)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Fold(basedata.SampleRunner(1), []int{1, 2}, tt.events)
			assert.Equal(t, model.Split{In: tt.wantIn, Out: tt.wantOut}, row.Splits[0])
		})
	}
}

func TestFoldSkipsOutOfRange(t *testing.T) {
	t1 := basedata.At(time.Hour)
	events := []*model.Event{
		ev(1, 1, 0, &t1, nil, time.Hour),
		ev(2, 1, model.MaxStations+1, &t1, nil, time.Hour),
		nil,
	}
	row := Fold(basedata.SampleRunner(1), []int{0, model.MaxStations + 1}, events)
	assert.Equal(t, [model.MaxStations]model.Split{}, row.Splits)
	assert.True(t, row.LastChanged.IsNull())
}

func TestFoldCopiesStatus(t *testing.T) {
	runner := basedata.SampleRunner(1)
	runner.DNF = true
	runner.DNS = true
	runner.DNFType = model.DNFMedical
	row := Fold(runner, nil, nil)
	assert.True(t, row.DNF)
	assert.True(t, row.DNS)
	assert.Equal(t, model.DNFMedical, row.DNFType)
}

func TestFoldOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	events := make([]*model.Event, 0, 60)
	for i := range 60 {
		in := basedata.At(time.Duration(r.IntN(600)) * time.Minute)
		var out *time.Time
		if r.IntN(2) == 0 {
			o := in.Add(5 * time.Minute)
			out = &o
		}
		events = append(events, ev(int64(i+1), 1, 1+r.IntN(4), &in, out,
			time.Duration(r.IntN(30))*time.Minute))
	}
	want := Fold(basedata.SampleRunner(1), []int{1, 2, 3, 4}, events)
	for range 10 {
		shuffled := append([]*model.Event(nil), events...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := Fold(basedata.SampleRunner(1), []int{1, 2, 3, 4}, shuffled)
		assert.Equal(t, want, got)
	}
}

func TestSortByDNF(t *testing.T) {
	rows := []*model.OutputRow{
		{Bib: 5, DNFType: model.DNFMedical},
		{Bib: 3, DNFType: model.DNFNone},
		{Bib: 4, DNFType: model.DNFTimeout},
		{Bib: 1, DNFType: model.DNFMedical},
		{Bib: 2, DNFType: model.DNFNone},
		{Bib: 6, DNFType: model.DNFWithdrew},
	}
	SortByDNF(rows)
	got := make([]int, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.Bib)
	}
	if diff := cmp.Diff([]int{2, 3, 1, 5, 4, 6}, got); diff != "" {
		t.Errorf("SortByDNF() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareDNF(t *testing.T) {
	tests := []struct {
		name string
		a, b model.DNFType
		want int
	}{
		{name: "medical after none", a: model.DNFMedical, b: model.DNFNone, want: 1},
		{name: "none before timeout", a: model.DNFNone, b: model.DNFTimeout, want: -1},
		{name: "lexical", a: model.DNFMedical, b: model.DNFTimeout, want: -1},
		{name: "empty is none", a: "", b: model.DNFUnknown, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareDNF(tt.a, 1, tt.b, 1)
			assert.Equal(t, tt.want, sign(got))
		})
	}
}

func TestSortRunnersByDNF(t *testing.T) {
	runners := basedata.SampleRunners(1, 2, 3)
	runners[0].DNFType = model.DNFWithdrew
	SortRunnersByDNF(runners)
	assert.Equal(t, 1, runners[2].Bib)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
