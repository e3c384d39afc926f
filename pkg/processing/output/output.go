package output

import (
	"slices"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// version identifies the event that set a split value
type version struct {
	lastChanged time.Time
	id          int64
}

func (v version) after(o version) bool {
	if !v.lastChanged.Equal(o.lastChanged) {
		return v.lastChanged.After(o.lastChanged)
	}
	return v.id > o.id
}

type slotState struct {
	in, out       null.Val[time.Time]
	inVer, outVer version
}

// Fold derives the output row of runner from its events.
// Only events of registered stations (stationIDs) within 1..MaxStations
// are used. Per station the latest non-null time in and the latest non-null
// time out win, ordered by lastChanged with the event id as tie breaker.
// The result only depends on the arguments.
func Fold(runner *model.Runner, stationIDs []int, events []*model.Event) *model.OutputRow {
	known := lo.SliceToMap(stationIDs, func(id int) (int, struct{}) {
		return id, struct{}{}
	})
	var slots [model.MaxStations]slotState
	var lastChanged null.Val[time.Time]

	for _, e := range events {
		if e == nil || e.Bib != runner.Bib || !model.ValidStationSlot(e.StationID) {
			continue
		}
		if _, ok := known[e.StationID]; !ok {
			continue
		}
		v := version{lastChanged: e.LastChanged, id: e.ID}
		slot := &slots[e.StationID-1]
		if in, ok := e.TimeIn.Get(); ok && (slot.in.IsNull() || v.after(slot.inVer)) {
			slot.in = null.From(in)
			slot.inVer = v
		}
		if out, ok := e.TimeOut.Get(); ok && (slot.out.IsNull() || v.after(slot.outVer)) {
			slot.out = null.From(out)
			slot.outVer = v
		}
		if cur, ok := lastChanged.Get(); !ok || e.LastChanged.After(cur) {
			lastChanged = null.From(e.LastChanged)
		}
	}

	row := &model.OutputRow{
		Bib:         runner.Bib,
		DNF:         runner.DNF,
		DNS:         runner.DNS,
		DNFType:     runner.DNFType,
		LastChanged: lastChanged,
	}
	if row.DNFType == "" {
		row.DNFType = model.DNFNone
	}
	for i := range slots {
		row.Splits[i] = model.Split{In: slots[i].in, Out: slots[i].out}
	}
	return row
}

// CompareDNF orders runners without dnf type first, the others
// lexically by dnf type. Equal types are ordered by bib.
func CompareDNF(aType model.DNFType, aBib int, bType model.DNFType, bBib int) int {
	aTerm, bTerm := aType.IsTerminal(), bType.IsTerminal()
	switch {
	case aTerm != bTerm:
		if aTerm {
			return 1
		}
		return -1
	case aTerm:
		if c := strings.Compare(string(aType), string(bType)); c != 0 {
			return c
		}
	}
	return aBib - bBib
}

// SortByDNF sorts rows in place using CompareDNF
func SortByDNF(rows []*model.OutputRow) {
	slices.SortStableFunc(rows, func(a, b *model.OutputRow) int {
		return CompareDNF(a.DNFType, a.Bib, b.DNFType, b.Bib)
	})
}

// SortRunnersByDNF applies the same policy to runners
func SortRunnersByDNF(runners []*model.Runner) {
	slices.SortStableFunc(runners, func(a, b *model.Runner) int {
		return CompareDNF(a.DNFType, a.Bib, b.DNFType, b.Bib)
	})
}
