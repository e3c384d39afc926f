package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
)

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 7, 27, 5, 30, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
		null bool
	}{
		{in: "2024-07-27T05:30:00Z", want: want},
		{in: "2024-07-27T07:30:00+02:00", want: want},
		{in: "2024-07-27T05:30:00", want: want},
		{in: "2024-07-27T05:30", want: want},
		{in: "2024-07-27 05:30:00", want: want},
		{in: " 2024-07-27 05:30 ", want: want},
		{in: "1722058200000", want: want},
		{in: "", null: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			assert.NoError(t, err)
			if tt.null {
				assert.True(t, got.IsNull())
				return
			}
			v, ok := got.Get()
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(v), "got %v", v)
		})
	}
	_, err := ParseTime("yesterday")
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}
