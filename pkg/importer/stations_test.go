//nolint:funlen // table driven
package importer

import (
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
)

func TestParseStations(t *testing.T) {
	doc, err := ParseStations([]byte(basedata.StationsJSON))
	assert.NoError(t, err)

	assert.Equal(t, "High Lonesome 100", doc.Event.Name)
	assert.Equal(t,
		null.From(time.Date(2024, 7, 27, 5, 0, 0, 0, time.UTC)), doc.Event.StartTime)
	assert.Equal(t, "1-start", doc.Event.StartLine)
	assert.Equal(t, "3-finish", doc.Event.FinishLine)

	ids := make([]string, 0, len(doc.Stations))
	for _, s := range doc.Stations {
		ids = append(ids, s.Identifier)
	}
	assert.Equal(t, basedata.StationIdentifiers, ids)

	start := doc.Stations[0]
	assert.Equal(t, model.EntryMode("out"), start.EntryMode)
	assert.True(t, start.CrewAccess)
	assert.NotNil(t, start.Location.Elevation)
	assert.InDelta(t, 2790.0, *start.Location.Elevation, 0.001)
	assert.Equal(t,
		null.From(time.Date(2024, 7, 27, 5, 30, 0, 0, time.UTC)), start.CutoffTime)
	assert.Equal(t, "KF0BBB", start.Operators["secondary"].Callsign)
	assert.Equal(t, 0, start.Operators.ActiveCount())

	blanks := doc.Stations[1]
	assert.Equal(t, model.EntryMode("1"), blanks.EntryMode)
	assert.Nil(t, blanks.Location.Elevation)
	assert.True(t, blanks.ShiftBegin.IsNull())
	assert.InDelta(t, 12.5, blanks.Distance, 0.001)
}

func TestParseStationsYAML(t *testing.T) {
	data := `
event:
  name: yaml event
  starttime: "2024-07-27 05:00"
stations:
  - name: Only
    identifier: 7-only
    shiftBegin: 2024-07-27T04:00:00Z
    operators:
      primary: {fullname: A, callsign: K1, phone: "1", active: true}
`
	doc, err := ParseStations([]byte(data))
	assert.NoError(t, err)
	assert.Equal(t, "7-only", doc.Event.StartLine)
	assert.Equal(t, "7-only", doc.Event.FinishLine)
	assert.Equal(t,
		null.From(time.Date(2024, 7, 27, 5, 0, 0, 0, time.UTC)), doc.Event.StartTime)
	assert.Equal(t,
		null.From(time.Date(2024, 7, 27, 4, 0, 0, 0, time.UTC)), doc.Stations[0].ShiftBegin)
	// active flags of the file are ignored
	assert.Equal(t, 0, doc.Stations[0].Operators.ActiveCount())
}

func TestParseStationsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid json", data: `{"stations": [`},
		{name: "no stations", data: `{"event": {"name": "x"}}`},
		{name: "empty stations", data: `{"stations": []}`},
		{name: "stations not a list", data: `{"stations": {"a": 1}}`},
		{name: "bad identifier", data: `{"stations": [{"identifier": "start"}]}`},
		{name: "id out of range", data: `{"stations": [{"identifier": "21-far"}]}`},
		{name: "id zero", data: `{"stations": [{"identifier": "0-zero"}]}`},
		{
			name: "duplicate identifier",
			data: `{"stations": [{"identifier": "1-a"}, {"identifier": "1-a"}]}`,
		},
		{
			name: "duplicate station id",
			data: `{"stations": [{"identifier": "1-a"}, {"identifier": "1-b"}]}`,
		},
		{
			name: "bad timestamp",
			data: `{"stations": [{"identifier": "1-a", "shiftBegin": "tomorrow"}]}`,
		},
		{
			name: "bad entrymode",
			data: `{"stations": [{"identifier": "1-a", "entrymode": true}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStations([]byte(tt.data))
			assert.ErrorIs(t, err, model.ErrInvalidFormat)
		})
	}
}
