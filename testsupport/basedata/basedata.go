package basedata

import (
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/stationlog/pkg/model"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

// At returns TestTime shifted by d
func At(d time.Duration) time.Time {
	return TestTime().Add(d)
}

// RosterJSON uses the key spelling of the spreadsheet export
const RosterJSON = `{
  "runners": [
    {"Bib": 101, "FirstName": "Ann", "LastName": "Ames", "gender": "F", "Age": 34,
     "City": "Leadville", "State": "CO", "EmergencyName": "Bob Ames",
     "EmergencyPhone": "555-0101"},
    {"Bib": "102", "first_name": "Ben", "last_name": "Bell", "gender": "M", "age": 41,
     "city": "Boulder", "state": "CO", "emName": "Cat Bell", "emPhone": 5550102},
    {"bib": 103, "firstname": "Cyd", "lastname": "Cole", "gender": "X", "age": 29,
     "city": "Denver", "state": "CO"}
  ]
}`

const RosterYAML = `
athletes:
  - bib: 201
    first_name: Dee
    last_name: Dunn
    gender: F
    age: 52
  - bib: 202
    first_name: Eli
    last_name: Enz
    gender: M
    age: 23
`

const StationsJSON = `{
  "event": {
    "name": "High Lonesome 100",
    "starttime": "2024-07-27T05:00:00Z",
    "endtime": "2024-07-28T11:00:00Z"
  },
  "stations": [
    {
      "name": "Start",
      "identifier": "1-start",
      "description": "Start line at the campground",
      "location": {"latitude": 38.71, "longitude": -106.24, "elevation": 2790},
      "distance": 0,
      "dropbags": false,
      "crewaccess": true,
      "paceraccess": false,
      "entrymode": "out",
      "shiftBegin": "2024-07-27T04:00:00Z",
      "cutofftime": "2024-07-27T05:30:00Z",
      "shiftEnd": "2024-07-27T06:00:00Z",
      "operators": {
        "primary": {"fullname": "Fay Ford", "callsign": "KF0AAA", "phone": "555-1001"},
        "secondary": {"fullname": "Gus Gray", "callsign": "KF0BBB", "phone": "555-1002"}
      }
    },
    {
      "name": "Blanks Cabin",
      "identifier": "2-blanks",
      "description": "",
      "location": {"latitude": 38.68, "longitude": -106.20},
      "distance": 12.5,
      "dropbags": true,
      "crewaccess": false,
      "paceraccess": false,
      "entrymode": 1,
      "operators": {
        "primary": {"fullname": "Hal Hill", "callsign": "KF0CCC", "phone": "555-1003"}
      }
    },
    {
      "name": "Finish",
      "identifier": "3-finish",
      "description": "Finish line",
      "location": {"latitude": 38.71, "longitude": -106.24},
      "distance": 100.2,
      "dropbags": false,
      "crewaccess": true,
      "paceraccess": true,
      "entrymode": "in",
      "operators": {
        "lead": {"fullname": "Ida Isle", "callsign": "KF0DDD", "phone": "555-1004"},
        "backup": {"fullname": "Jon Jay", "callsign": "KF0EEE", "phone": "555-1005"}
      }
    }
  ]
}`

// StationIdentifiers lists the identifiers of StationsJSON in file order
var StationIdentifiers = []string{"1-start", "2-blanks", "3-finish"}

func SampleRunner(bib int) *model.Runner {
	return &model.Runner{
		Bib:       bib,
		FirstName: "First",
		LastName:  "Last",
		Gender:    "F",
		Age:       30,
		City:      "Town",
		State:     "ST",
		DNFType:   model.DNFNone,
	}
}

func SampleRunners(bibs ...int) []*model.Runner {
	ret := make([]*model.Runner, 0, len(bibs))
	for _, bib := range bibs {
		ret = append(ret, SampleRunner(bib))
	}
	return ret
}

func SampleStation(identifier string) *model.Station {
	return &model.Station{
		Name:       "Station " + identifier,
		Identifier: identifier,
		Location:   model.Location{Latitude: 38.7, Longitude: -106.2},
		Distance:   10,
		EntryMode:  "in-out",
		ShiftBegin: null.From(TestTime()),
		Operators: model.Operators{
			model.PrimaryOperator: {FullName: "Pri Mary", Callsign: "KP1", Phone: "1"},
			"secondary":           {FullName: "Sec Ond", Callsign: "KS2", Phone: "2"},
		},
	}
}

func NewEvent(bib, stationID int, in, out *time.Time) *model.NewEvent {
	return &model.NewEvent{
		Bib:       bib,
		StationID: stationID,
		TimeIn:    null.FromPtr(in),
		TimeOut:   null.FromPtr(out),
	}
}

func Ptr[T any](v T) *T {
	return &v
}
