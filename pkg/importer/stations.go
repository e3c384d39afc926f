package importer

import (
	"fmt"
	"strings"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// StationDocument is the content of a station configuration file
type StationDocument struct {
	Event    model.EventInfo
	Stations []*model.Station
}

//nolint:tagliatelle // station file format
type eventDoc struct {
	Name      string     `json:"name"`
	StartTime *timeValue `json:"starttime"`
	EndTime   *timeValue `json:"endtime"`
}

//nolint:tagliatelle // station file format
type stationDoc struct {
	Name        string          `json:"name"`
	Identifier  string          `json:"identifier"`
	Description string          `json:"description"`
	Location    model.Location  `json:"location"`
	Distance    float64         `json:"distance"`
	Dropbags    bool            `json:"dropbags"`
	CrewAccess  bool            `json:"crewaccess"`
	PacerAccess bool            `json:"paceraccess"`
	EntryMode   model.EntryMode `json:"entrymode"`
	ShiftBegin  *timeValue      `json:"shiftBegin"`
	CutoffTime  *timeValue      `json:"cutofftime"`
	ShiftEnd    *timeValue      `json:"shiftEnd"`
	Operators   model.Operators `json:"operators"`
}

func (s *stationDoc) toModel() *model.Station {
	return &model.Station{
		Name:        s.Name,
		Identifier:  s.Identifier,
		Description: s.Description,
		Location:    s.Location,
		Distance:    s.Distance,
		Dropbags:    s.Dropbags,
		CrewAccess:  s.CrewAccess,
		PacerAccess: s.PacerAccess,
		EntryMode:   s.EntryMode,
		ShiftBegin:  toTime(s.ShiftBegin),
		CutoffTime:  toTime(s.CutoffTime),
		ShiftEnd:    toTime(s.ShiftEnd),
		Operators:   s.Operators,
	}
}

// ParseStations parses a station configuration document with keys
// "event" and "stations". Station order is kept, the first and last
// identifiers become start line and finish line.
func ParseStations(data []byte) (*StationDocument, error) {
	obj, err := Parse(data)
	if err != nil {
		return nil, err
	}
	raw, ok := lookup(obj, "$.stations")
	if !ok {
		return nil, fmt.Errorf("%w: no stations found", model.ErrInvalidFormat)
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: stations must be a non-empty list", model.ErrInvalidFormat)
	}

	doc := &StationDocument{Stations: make([]*model.Station, 0, len(list))}
	if ev, ok := lookup(obj, "$.event"); ok {
		var e eventDoc
		if err := decodeInto(ev, &e); err != nil {
			return nil, fmt.Errorf("%w: event: %v", model.ErrInvalidFormat, err)
		}
		doc.Event.Name = e.Name
		doc.Event.StartTime = toTime(e.StartTime)
		doc.Event.EndTime = toTime(e.EndTime)
	}

	identifiers := make(map[string]int, len(list))
	stationIDs := make(map[int]int, len(list))
	for i, entry := range list {
		station, err := toStation(entry)
		if err != nil {
			return nil, fmt.Errorf("station entry %d: %w", i, err)
		}
		stationID, _ := station.StationID()
		if prev, dup := identifiers[station.Identifier]; dup {
			return nil, fmt.Errorf("%w: identifier %q used by entries %d and %d",
				model.ErrInvalidFormat, station.Identifier, prev, i)
		}
		if prev, dup := stationIDs[stationID]; dup {
			return nil, fmt.Errorf("%w: station id %d used by entries %d and %d",
				model.ErrInvalidFormat, stationID, prev, i)
		}
		identifiers[station.Identifier] = i
		stationIDs[stationID] = i
		doc.Stations = append(doc.Stations, station)
	}
	doc.Event.StartLine = doc.Stations[0].Identifier
	doc.Event.FinishLine = doc.Stations[len(doc.Stations)-1].Identifier
	return doc, nil
}

func toStation(entry any) (*model.Station, error) {
	if _, ok := entry.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: not an object", model.ErrInvalidFormat)
	}
	var s stationDoc
	if err := decodeInto(entry, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFormat, err)
	}
	station := s.toModel()
	station.Identifier = strings.TrimSpace(station.Identifier)
	stationID, err := station.StationID()
	if err != nil {
		return nil, err
	}
	if !model.ValidStationSlot(stationID) {
		return nil, fmt.Errorf("%w: station id %d of %q is outside 1..%d",
			model.ErrInvalidFormat, stationID, station.Identifier, model.MaxStations)
	}
	if station.Operators == nil {
		station.Operators = model.Operators{}
	}
	for key, op := range station.Operators {
		// activation is owned by the session
		op.Active = false
		station.Operators[key] = op
	}
	return station, nil
}
