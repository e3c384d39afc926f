package model

import (
	"time"

	"github.com/aarondl/opt/null"
)

// MaxStations is the number of station slots in an output row
const MaxStations = 20

type (
	Split struct {
		In  null.Val[time.Time] `json:"in"`
		Out null.Val[time.Time] `json:"out"`
	}
	// OutputRow is the split sheet row of a runner. Splits[0] holds station 1.
	OutputRow struct {
		Bib         int                 `json:"bib"`
		Splits      [MaxStations]Split  `json:"splits"`
		DNF         bool                `json:"dnf"`
		DNS         bool                `json:"dns"`
		DNFType     DNFType             `json:"dnfType"`
		LastChanged null.Val[time.Time] `json:"lastChanged"`
	}
)

func ValidStationSlot(stationID int) bool {
	return stationID >= 1 && stationID <= MaxStations
}

// Split returns the split for a station id (1-based)
func (o *OutputRow) Split(stationID int) (Split, bool) {
	if !ValidStationSlot(stationID) {
		return Split{}, false
	}
	return o.Splits[stationID-1], true
}
